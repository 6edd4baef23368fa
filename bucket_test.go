package concache

import "testing"

// TestBucketListBasics mirrors scenario S3 and the original Rust source's
// linkedlist_basics test (original_source/src/manual/mod.rs).
func TestBucketListBasics(t *testing.T) {
	var b bucketList
	var acc reclaimed

	b.insert(3, 2, &acc)
	b.insert(3, 4, &acc)
	b.insert(5, 8, &acc)
	b.insert(4, 6, &acc)
	b.insert(1, 8, &acc)
	b.insert(6, 6, &acc)

	if v, ok := b.get(3, &acc); !ok || v != 4 {
		t.Fatalf("get(3) = (%v, %v), want (4, true)", v, ok)
	}
	if v, ok := b.get(5, &acc); !ok || v != 8 {
		t.Fatalf("get(5) = (%v, %v), want (8, true)", v, ok)
	}
	if _, ok := b.get(2, &acc); ok {
		t.Fatalf("get(2) found a value, want not found")
	}

	// The replaced (3,2) node should have been logically unlinked.
	if acc.empty() {
		t.Fatalf("expected the replaced node to be queued for reclamation")
	}
}

func TestBucketListDeleteIdempotent(t *testing.T) {
	var b bucketList
	var acc reclaimed

	b.insert(5, 3, &acc)
	if v, ok := b.delete(5, &acc); !ok || v != 3 {
		t.Fatalf("delete(5) = (%v, %v), want (3, true)", v, ok)
	}
	if _, ok := b.delete(5, &acc); ok {
		t.Fatalf("second delete(5) found a value, want not found")
	}
	if _, ok := b.get(5, &acc); ok {
		t.Fatalf("get(5) after delete found a value, want not found")
	}
}

func TestBucketListInsertReplacement(t *testing.T) {
	var b bucketList
	var acc reclaimed

	if _, had := b.insert(1, 10, &acc); had {
		t.Fatalf("first insert(1,10) reported a previous value")
	}
	prev, had := b.insert(1, 20, &acc)
	if !had || prev != 10 {
		t.Fatalf("insert(1,20) = (%v, %v), want (10, true)", prev, had)
	}
	if v, ok := b.get(1, &acc); !ok || v != 20 {
		t.Fatalf("get(1) = (%v, %v), want (20, true)", v, ok)
	}
}
