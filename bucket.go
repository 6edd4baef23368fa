package concache

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// bucketList is a singly linked list of nodes reachable from head,
// supporting insert/get/delete with logical-deletion semantics
// (spec.md §4.1). Nothing in this package physically unlinks a node: a
// logically deleted node stays reachable from head for the life of the
// list, and the reclamation barrier in handle.go only counts it as freed.
type bucketList struct {
	head atomic.Pointer[node]
}

// reclaimed is the out-accumulator every bucketList operation threads
// through: pointers appended here are owned by the caller until they are
// physically freed by the epoch barrier.
type reclaimed struct {
	nodes []*node
}

func (r *reclaimed) push(n *node) {
	r.nodes = append(r.nodes, n)
}

func (r *reclaimed) empty() bool {
	return len(r.nodes) == 0
}

// casBackoff bounds a CAS retry spin the way
// aristanetworks-goarista/gnmireverse/client/client.go bounds its network
// retry loop: exponential, capped, reset per call site. It never gives
// up — spec.md §5 leaves CAS retry "bounded only by contention" — it
// just avoids a bare busy-wait between attempts.
func casBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Microsecond
	bo.MaxInterval = 50 * time.Microsecond
	bo.MaxElapsedTime = 0 // never stop
	bo.Reset()
	return bo
}

// waitBackoff sleeps the next backoff interval. NextBackOff() returning
// backoff.Stop would mean the policy gave up, which casBackoff's
// MaxElapsedTime=0 rules out.
func waitBackoff(bo *backoff.ExponentialBackOff) {
	time.Sleep(bo.NextBackOff())
}

// insert installs (k, v). If an active node for k already exists it is
// logically replaced: the old node is deactivated and pushed onto acc,
// and its previous value is returned. Two concurrent inserts of the same
// key race on the head CAS; the loser retries and, finding the winner's
// node active, takes the replacement path — exactly one active node per
// key results either way.
func (b *bucketList) insert(key, value uint64, acc *reclaimed) (prev uint64, hadPrev bool) {
	bo := casBackoff()
	for {
		head := b.head.Load()

		if old := findActive(head, key); old != nil {
			n := newNode(key, value, head)
			if b.head.CompareAndSwap(head, n) {
				old.deactivate()
				if old.claimForReclaim() {
					acc.push(old)
				}
				return old.value, true
			}
			waitBackoff(bo)
			continue
		}

		n := newNode(key, value, head)
		if b.head.CompareAndSwap(head, n) {
			return 0, false
		}
		waitBackoff(bo)
	}
}

// get returns the value of the first active node for key, or false if
// none is reachable. It traverses with acquire-ordered loads throughout
// (atomic.Pointer already gives us that). Per spec.md §9's opportunistic
// collection note, get also pushes any inactive node it passes over onto
// acc — a read-heavy workload helps drain reclaimable nodes too, not just
// deletes and replacing inserts. claimForReclaim arbitrates the case where
// the same node goes inactive underneath a concurrent insert/delete and a
// passing get at the same time: exactly one of them wins the node and
// queues it, so it is never freed twice.
func (b *bucketList) get(key uint64, acc *reclaimed) (value uint64, ok bool) {
	for n := b.head.Load(); n != nil; n = n.loadNext() {
		if !n.isActive() {
			if n.claimForReclaim() {
				acc.push(n)
			}
			continue
		}
		if n.key == key {
			return n.value, true
		}
	}
	return 0, false
}

// delete clears the active flag of key's node via CAS (idempotent: a
// losing racer simply finds the flag already cleared and reports
// "not found"), pushes it onto acc, and returns its value.
func (b *bucketList) delete(key uint64, acc *reclaimed) (value uint64, ok bool) {
	for n := b.head.Load(); n != nil; n = n.loadNext() {
		if n.key != key || !n.isActive() {
			continue
		}
		if n.deactivate() {
			if n.claimForReclaim() {
				acc.push(n)
			}
			return n.value, true
		}
		return 0, false
	}
	return 0, false
}

// findActive returns the first active node for key starting from head,
// or nil. It does not collect inactive nodes — callers that want that
// call get()/delete() directly; this helper only serves insert()'s
// replacement check, which must not mutate acc on a path that may retry.
func findActive(head *node, key uint64) *node {
	for n := head; n != nil; n = n.loadNext() {
		if n.isActive() && n.key == key {
			return n
		}
	}
	return nil
}

// debugString renders the bucket's key/active sequence for tests that
// want to assert on list shape after a race — adapted from the Rust
// original's LinkedList::print() debug helper (original_source); it has
// no production caller.
func (b *bucketList) debugString() string {
	s := "["
	for n := b.head.Load(); n != nil; n = n.loadNext() {
		if n.isActive() {
			s += "*"
		}
		s += strconv.FormatUint(n.key, 10) + ":" + strconv.FormatUint(n.value, 10) + " "
	}
	return s + "]"
}
