package concache

import "sync/atomic"

// Map is the shared, owning side of the table: every Handle cloned from
// the same WithCapacity call operates on one Map. Callers never touch
// Map directly — spec.md §6 exposes only the Handle surface.
type Map struct {
	table    *table
	registry epochRegistry

	// freed is a test-only instrument (spec.md P7: "detectable via a
	// test-only free counter"). It has no production reader.
	freed atomic.Int64
}

// Handle is a per-goroutine access token: one epoch counter, shared
// ownership of the Map. Handles are cheap to Clone and are the unit of
// concurrency the epoch-reclamation protocol reasons about (spec.md §3,
// §4.3).
type Handle struct {
	m     *Map
	epoch *atomic.Uint64
}

// WithCapacity creates the map and its first handle (spec.md §6).
// nbuckets must be >= 1; nbuckets == 0 is the core's one structural
// failure and is fatal (spec.md §7), matching newTable's panic.
func WithCapacity(nbuckets uint64) *Handle {
	m := &Map{table: newTable(nbuckets)}
	return &Handle{m: m, epoch: m.registry.register()}
}

// Clone returns a new handle sharing this one's Map, with a fresh epoch
// counter registered into the shared registry (spec.md §4.3).
func (h *Handle) Clone() *Handle {
	return &Handle{m: h.m, epoch: h.m.registry.register()}
}

// Insert binds key to value, returning the previously bound value if any
// (spec.md §6).
func (h *Handle) Insert(key, value uint64) (prev uint64, hadPrev bool) {
	acc := new(reclaimed)
	h.enter()
	prev, hadPrev = h.m.table.insert(key, value, acc)
	h.exit()
	h.reclaim(acc)
	return prev, hadPrev
}

// Get returns the value currently bound to key, if any (spec.md §6).
func (h *Handle) Get(key uint64) (value uint64, ok bool) {
	acc := new(reclaimed)
	h.enter()
	value, ok = h.m.table.get(key, acc)
	h.exit()
	h.reclaim(acc)
	return value, ok
}

// Delete removes key, returning the removed value if any (spec.md §6).
func (h *Handle) Delete(key uint64) (value uint64, ok bool) {
	acc := new(reclaimed)
	h.enter()
	value, ok = h.m.table.delete(key, acc)
	h.exit()
	h.reclaim(acc)
	return value, ok
}

// Len returns the table's advisory live-key count (spec.md §4.2).
func (h *Handle) Len() int {
	return h.m.table.Len()
}

// Epoch returns this handle's current epoch counter value. Even means
// quiescent, odd means inside a critical section (spec.md §4.3); exposed
// for property P6/scenario S6 ("epoch counter equals 2·K").
func (h *Handle) Epoch() uint64 {
	return h.epoch.Load()
}

// enter advances the epoch counter to the next odd value, marking entry
// into a critical section that may dereference pointers to nodes another
// handle could concurrently unlink.
func (h *Handle) enter() {
	h.epoch.Add(1)
}

// exit advances the epoch counter to the next even value. It must run
// before any registry read the following reclamation barrier performs —
// spec.md §9's open question about barrier-vs-exit ordering: the acting
// handle must itself be even before it scans peers, otherwise another
// handle's barrier could wait on this one forever.
func (h *Handle) exit() {
	h.epoch.Add(1)
}

// reclaim runs the EBR barrier only if this operation actually collected
// something to free (spec.md §4.3's "Idle -> Reclaiming -> Idle" state
// only triggers on a non-empty accumulator).
func (h *Handle) reclaim(acc *reclaimed) {
	if acc.empty() {
		return
	}
	h.barrier(acc)
}

// barrier is the reclamation protocol of spec.md §4.3: snapshot every
// peer's counter, then for each peer spin until it has either advanced
// strictly past its snapshot or gone quiescent (even). The spin
// predicate is load-bearing exactly as written — simplifying it to "wait
// for even" is explicitly called out as wrong in spec.md §9, because a
// peer that was already even at snapshot time must NOT be waited on (its
// next critical section, if any, necessarily begins after this unlink's
// happens-before fence).
func (h *Handle) barrier(acc *reclaimed) {
	counters, started := h.m.registry.snapshot()

	for i, c := range counters {
		if c == h.epoch {
			// Our own counter is even right now (exit() already ran);
			// nothing to wait for.
			continue
		}
		bo := casBackoff()
		for {
			check := c.Load()
			if check > started[i] || check%2 == 0 {
				break
			}
			waitBackoff(bo)
		}
	}

	for range acc.nodes {
		h.m.freed.Add(1)
	}
}

// Physical unlinking of an interior node is optional (spec.md §9): insert
// only ever prepends, so a node's predecessor still points at it after
// the barrier clears it for reclamation, and nothing ever re-splices that
// predecessor's next pointer past it. Touching the freed node's own next
// field here would sever every node behind it from head. Because nothing
// splices it out, the node stays reachable from its bucket's head, so Go's
// GC does not reclaim its memory while the table lives; the barrier's only
// effect on it is the P7 free count above.

// freedCount is test-only instrumentation for spec.md P7.
func (h *Handle) freedCount() int64 {
	return h.m.freed.Load()
}
