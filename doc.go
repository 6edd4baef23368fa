// Package concache implements a concurrent, in-memory hash table mapping
// uint64 keys to uint64 values, shared by a dynamic set of caller-owned
// Handles across goroutines.
//
// Lookups never block on a lock: bucket traversal follows atomic pointers
// only. Deletes and overwriting inserts logically unlink a node (clear
// its active flag) instead of freeing it immediately, because another
// goroutine may be mid-traversal through it. After an operation that
// unlinked something, the Handle runs an epoch-based reclamation barrier
// that waits until every Handle has exited any critical section that
// began before the unlink, then counts the node as freed. The node is not
// spliced out of its bucket list, so it stays reachable and its memory is
// not released while the table lives.
//
// Resizing, iteration, and generic key/value typing are not part of this
// core; see the typed package for a generic wrapper.
package concache
