package concache

import "sync/atomic"

// node is one entry in a bucketList's singly linked list. key is fixed at
// construction; value is fixed too — a new write for an existing key
// installs a new node and deactivates the old one rather than mutating
// value in place. next only ever points further into the list: the
// head-insertion protocol prepends, it never splices into the middle.
type node struct {
	key   uint64
	value uint64
	next  atomic.Pointer[node]
	// active is false once the node has been logically deleted or
	// superseded by a newer node for the same key. It transitions
	// true -> false exactly once.
	active atomic.Bool
	// queued guards entry into a handle's reclamation accumulator. A node
	// going inactive can be observed by the mutator that deactivated it
	// (insert/delete) or, independently, by a concurrent Get's
	// opportunistic collection pass. Both race to push the same node;
	// queued's CAS picks exactly one winner so the node is enqueued into
	// exactly one accumulator, never two.
	queued atomic.Bool
}

func newNode(key, value uint64, next *node) *node {
	n := &node{key: key, value: value}
	n.next.Store(next)
	n.active.Store(true)
	return n
}

func (n *node) loadNext() *node {
	return n.next.Load()
}

// deactivate clears active with a CAS so concurrent deleters racing the
// same node agree on exactly one winner.
func (n *node) deactivate() bool {
	return n.active.CompareAndSwap(true, false)
}

func (n *node) isActive() bool {
	return n.active.Load()
}

// claimForReclaim returns true at most once for a given node: the caller
// that wins it is the node's sole owner for reclamation purposes.
func (n *node) claimForReclaim() bool {
	return n.queued.CompareAndSwap(false, true)
}
