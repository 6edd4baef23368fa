package concache

import (
	"sync"
	"sync/atomic"
)

// epochRegistry is the process-wide (per-Map) list of every live handle's
// epoch counter (spec.md §3 "Handle registry", §4.3). Reclamation
// barriers take a shared view to scan it; cloning a handle takes an
// exclusive view to append — the same reader-heavy / writer-rare
// discipline absir-cmap's bucket gives each shard (sync.RWMutex guarding
// a map), adapted here to guard a slice instead.
type epochRegistry struct {
	mu       sync.RWMutex
	counters []*atomic.Uint64
}

// register appends a fresh epoch counter (initial value 0, i.e.
// quiescent) and returns it. Called on Map construction and on every
// Handle.Clone.
func (r *epochRegistry) register() *atomic.Uint64 {
	c := new(atomic.Uint64)
	r.mu.Lock()
	r.counters = append(r.counters, c)
	r.mu.Unlock()
	return c
}

// snapshot returns the current counter values read under a shared lock.
// A handle cloned mid-barrier may or may not be included — spec.md §4.3
// notes either outcome is safe, since a freshly registered counter starts
// at 0 and has never held a pointer into the map.
func (r *epochRegistry) snapshot() (counters []*atomic.Uint64, started []uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counters = make([]*atomic.Uint64, len(r.counters))
	started = make([]uint64, len(r.counters))
	for i, c := range r.counters {
		counters[i] = c
		started[i] = c.Load()
	}
	return counters, started
}
