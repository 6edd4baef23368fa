// Package typed layers arbitrary, equality-comparable keys and arbitrary
// values over concache's uint64 × uint64 core, the "generic keys/values"
// indirection table spec.md §9 describes as an allowed external
// collaborator: "A wrapper can layer equality-comparable, hashable keys
// and arbitrary values above by introducing an indirection table."
//
// Grounded on aristanetworks-goarista/key's Hashable/entry-chain pattern
// (key/key.go, key/map.go): keys that collide on their 64-bit hash are
// kept as a chain rather than dropped.
package typed

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/chenyouxiang/concache"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Map is a concurrent map over arbitrary comparable keys. The concache
// core tracks presence/liveness by hash; the collision chain and the
// actual values live in a small mutex-guarded side table, the same
// indirection goarista's key.Map uses for non-natively-hashable keys.
type Map[K comparable, V any] struct {
	core   *concache.Handle
	mu     sync.RWMutex
	chains map[uint64][]entry[K, V]
}

// New creates a typed Map whose core table has nbuckets buckets.
func New[K comparable, V any](nbuckets uint64) *Map[K, V] {
	return &Map[K, V]{
		core:   concache.WithCapacity(nbuckets),
		chains: make(map[uint64][]entry[K, V]),
	}
}

// hashKey hashes any comparable key by its fmt-stringified form, the way
// aristanetworks-goarista/key/stringify.go renders arbitrary key values
// before indexing them.
func hashKey[K comparable](key K) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%#v", key))
}

// Set inserts or replaces key's value, returning the previous value if
// any.
func (m *Map[K, V]) Set(key K, value V) (prev V, hadPrev bool) {
	h := hashKey(key)

	m.mu.Lock()
	chain := m.chains[h]
	for i, e := range chain {
		if e.key == key {
			prev = e.value
			chain[i].value = value
			m.mu.Unlock()
			return prev, true
		}
	}
	chain = append(chain, entry[K, V]{key: key, value: value})
	m.chains[h] = chain
	chainLen := len(chain)
	m.mu.Unlock()

	m.core.Insert(h, uint64(chainLen))
	return prev, false
}

// Get returns the value bound to key, if any.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	h := hashKey(key)
	if _, present := m.core.Get(h); !present {
		return value, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.chains[h] {
		if e.key == key {
			return e.value, true
		}
	}
	return value, false
}

// Delete removes key, returning the removed value if any.
func (m *Map[K, V]) Delete(key K) (value V, ok bool) {
	h := hashKey(key)

	m.mu.Lock()
	chain := m.chains[h]
	for i, e := range chain {
		if e.key == key {
			value, ok = e.value, true
			chain = append(chain[:i], chain[i+1:]...)
			break
		}
	}
	if len(chain) == 0 {
		delete(m.chains, h)
	} else {
		m.chains[h] = chain
	}
	m.mu.Unlock()

	if ok {
		if len(chain) == 0 {
			m.core.Delete(h)
		} else {
			m.core.Insert(h, uint64(len(chain)))
		}
	}
	return value, ok
}

// Len returns the number of distinct hash buckets with at least one live
// entry — an approximation when keys collide, exactly like the core's
// own advisory nitems (spec.md §4.2).
func (m *Map[K, V]) Len() int {
	return m.core.Len()
}
