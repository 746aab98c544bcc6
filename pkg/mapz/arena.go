package mapz

import (
	"math"

	"github.com/authzed/mapz/internal/bugs"
)

const (
	// nilIdx marks the absence of an entry in chain and free-list links.
	nilIdx = int32(-1)

	// headIdx is the arena slot of the order ring's sentinel.
	headIdx = int32(0)
)

// entry is one key/value node. Entries live in the arena slice and
// refer to each other by index: next threads the bucket collision chain
// (and the free list while the slot is unused), while before and after
// thread the insertion-order ring.
type entry[K comparable, V any] struct {
	hash  uint64
	key   K
	value V

	next   int32
	before int32
	after  int32
}

// arena owns every entry, including the ring sentinel at slot 0.
// Removed slots are recycled through a free list threaded on next, so
// link fields stay plain indices and no cyclic pointer graph is built.
type arena[K comparable, V any] struct {
	entries []entry[K, V]
	free    int32
}

func newArena[K comparable, V any]() *arena[K, V] {
	a := &arena[K, V]{free: nilIdx}

	// The sentinel is keyless and points at itself while the map is
	// empty: its after is the oldest live entry, its before the newest.
	a.entries = append(a.entries, entry[K, V]{next: nilIdx, before: headIdx, after: headIdx})
	return a
}

func (a *arena[K, V]) at(idx int32) *entry[K, V] {
	return &a.entries[idx]
}

// alloc returns the index of a fresh entry holding the given key and
// value, reusing a free slot when one is available.
func (a *arena[K, V]) alloc(hash uint64, key K, value V) (int32, error) {
	fresh := entry[K, V]{
		hash:   hash,
		key:    key,
		value:  value,
		next:   nilIdx,
		before: nilIdx,
		after:  nilIdx,
	}

	if a.free != nilIdx {
		idx := a.free
		a.free = a.entries[idx].next
		a.entries[idx] = fresh
		return idx, nil
	}

	if len(a.entries) >= math.MaxInt32 {
		return nilIdx, bugs.MustBugf("arena overflow: entry count exceeds int32 index space")
	}

	a.entries = append(a.entries, fresh)
	return int32(len(a.entries) - 1), nil
}

// release zeroes the slot, dropping any key and value references, and
// pushes it onto the free list.
func (a *arena[K, V]) release(idx int32) {
	bugs.DebugAssertf(func() bool { return idx != headIdx }, "released the ring sentinel")

	a.entries[idx] = entry[K, V]{next: a.free, before: nilIdx, after: nilIdx}
	a.free = idx
}

// reset drops every live entry and restores the empty ring.
func (a *arena[K, V]) reset() {
	a.entries = a.entries[:1]
	a.free = nilIdx

	head := a.at(headIdx)
	head.before = headIdx
	head.after = headIdx
}

// linkBefore threads idx into the ring immediately before anchor.
// Linking before the sentinel appends in insertion order.
func (a *arena[K, V]) linkBefore(idx, anchor int32) {
	e := a.at(idx)
	e.after = anchor
	e.before = a.at(anchor).before
	a.at(e.before).after = idx
	a.at(anchor).before = idx
}

// unlink detaches idx from the ring. The slot itself is untouched.
func (a *arena[K, V]) unlink(idx int32) {
	e := a.at(idx)
	a.at(e.before).after = e.after
	a.at(e.after).before = e.before
}
