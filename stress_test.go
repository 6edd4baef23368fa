package concache

import (
	"math/rand"
	"sync"
	"testing"
)

// TestConcurrentStress is scenario S5/S6: 5 goroutines x 100,000 ops each,
// uniform insert/get/delete over a uint64 keyspace of [0,128), workload
// always inserting (k, k) so any Get that returns Some(v) must satisfy
// v == k. Run with -race to exercise property P5 (no use-after-free).
func TestConcurrentStress(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}

	const (
		nthreads   = 5
		iterations = 100000
		keyspace   = 128
	)

	h := WithCapacity(8)
	var wg sync.WaitGroup
	wg.Add(nthreads)

	for g := 0; g < nthreads; g++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			hh := h.Clone()

			for i := 0; i < iterations; i++ {
				key := uint64(r.Intn(keyspace))
				switch r.Intn(3) {
				case 0:
					hh.Insert(key, key)
				case 1:
					if v, ok := hh.Get(key); ok && v != key {
						t.Errorf("Get(%d) = %d, want %d", key, v, key)
					}
				case 2:
					hh.Delete(key)
				}
			}

			// Scenario S6: each thread's final epoch counter equals
			// exactly 2 * iterations (each op contributes exactly +2).
			if got, want := hh.Epoch(), uint64(2*iterations); got != want {
				t.Errorf("Epoch() = %d, want %d", got, want)
			}
		}(int64(g) + 1)
	}

	wg.Wait()
}

// TestConcurrentInsertSameKey races two goroutines inserting the same key
// repeatedly — the head-CAS loser's replacement path (spec.md §4.1) must
// leave exactly one active node visible at any time.
func TestConcurrentInsertSameKey(t *testing.T) {
	h := WithCapacity(1)
	var wg sync.WaitGroup
	wg.Add(2)

	for g := 0; g < 2; g++ {
		go func(base uint64) {
			defer wg.Done()
			hh := h.Clone()
			for i := uint64(0); i < 2000; i++ {
				hh.Insert(42, base+i)
			}
		}(uint64(g) * 10000)
	}
	wg.Wait()

	if _, ok := h.Get(42); !ok {
		t.Fatalf("Get(42) found nothing after concurrent inserts")
	}
	if got := h.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1 (one active node for key 42)", got)
	}
}
