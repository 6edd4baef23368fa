package concache

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// tableHash is the deterministic 64-bit hash required by spec.md §4.2: the
// same key always lands in the same bucket for the life of a Table. Keys
// are fixed-width uint64s, so there is no per-call allocation beyond the
// stack-local scratch buffer, the same trick semihalev-sdns's cache key
// builder uses to keep a key → bucket hash allocation-free.
func tableHash(key uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	return xxhash.Sum64(buf[:])
}
