package concache

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

// mapOp mirrors absir-cmap/cmap_test.go's mapCall harness, narrowed to
// this core's uint64-keyed, three-operation surface (Insert/Get/Delete —
// no Range, no LoadOrStore: those are out of core scope per spec.md §1).
type mapOp string

const (
	opInsert = mapOp("Insert")
	opGet    = mapOp("Get")
	opDelete = mapOp("Delete")
)

var mapOps = [...]mapOp{opInsert, opGet, opDelete}

type mapCall struct {
	op   mapOp
	k, v uint64
}

func (c mapCall) apply(h *Handle, ref map[uint64]uint64) (value uint64, ok bool) {
	switch c.op {
	case opInsert:
		value, ok = h.Insert(c.k, c.v)
		wantValue, wantOK := ref[c.k]
		ref[c.k] = c.v
		if ok != wantOK || (ok && value != wantValue) {
			panic("insert mismatch")
		}
	case opGet:
		value, ok = h.Get(c.k)
		wantValue, wantOK := ref[c.k]
		if ok != wantOK || (ok && value != wantValue) {
			panic("get mismatch")
		}
	case opDelete:
		value, ok = h.Delete(c.k)
		wantValue, wantOK := ref[c.k]
		delete(ref, c.k)
		if ok != wantOK || (ok && value != wantValue) {
			panic("delete mismatch")
		}
	}
	return value, ok
}

func (mapCall) Generate(r *rand.Rand, size int) reflect.Value {
	c := mapCall{op: mapOps[r.Intn(len(mapOps))], k: uint64(r.Intn(64))}
	if c.op == opInsert {
		c.v = uint64(r.Intn(1 << 20))
	}
	return reflect.ValueOf(c)
}

// TestSequentialMatchesReference is property P1: for any sequence of
// operations from one handle, observed return values match a reference
// map[uint64]uint64 under last-writer-wins.
func TestSequentialMatchesReference(t *testing.T) {
	check := func(calls []mapCall) bool {
		h := WithCapacity(8)
		ref := make(map[uint64]uint64)
		ok := true
		func() {
			defer func() {
				if recover() != nil {
					ok = false
				}
			}()
			for _, c := range calls {
				c.apply(h, ref)
			}
		}()
		return ok
	}
	if err := quick.Check(check, nil); err != nil {
		t.Error(err)
	}
}
