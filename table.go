package concache

import "sync/atomic"

// table is a fixed-size array of bucketLists plus an advisory item
// counter (spec.md §4.2). nbuckets never changes after construction.
type table struct {
	nbuckets uint64
	buckets  []bucketList
	nitems   atomic.Int64
}

func newTable(nbuckets uint64) *table {
	if nbuckets == 0 {
		panic("concache: nbuckets must be >= 1")
	}
	return &table{
		nbuckets: nbuckets,
		buckets:  make([]bucketList, nbuckets),
	}
}

func (t *table) bucketFor(key uint64) *bucketList {
	return &t.buckets[tableHash(key)%t.nbuckets]
}

func (t *table) insert(key, value uint64, acc *reclaimed) (prev uint64, hadPrev bool) {
	prev, hadPrev = t.bucketFor(key).insert(key, value, acc)
	if !hadPrev {
		t.nitems.Add(1)
	}
	return prev, hadPrev
}

func (t *table) get(key uint64, acc *reclaimed) (value uint64, ok bool) {
	return t.bucketFor(key).get(key, acc)
}

func (t *table) delete(key uint64, acc *reclaimed) (value uint64, ok bool) {
	value, ok = t.bucketFor(key).delete(key, acc)
	if ok {
		t.nitems.Add(-1)
	}
	return value, ok
}

// Len returns the advisory live-item count (spec.md §4.2: "eventually
// consistent", not linearizable across keys).
func (t *table) Len() int {
	return int(t.nitems.Load())
}
