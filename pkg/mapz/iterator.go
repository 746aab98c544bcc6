package mapz

import (
	"fmt"
)

// Iterator walks the entries of a LinkedMultiMap in insertion order.
// It is one-shot: once exhausted it cannot be restarted; request a new
// iterator from the map instead. Mutating the map during iteration is
// unsupported, beyond the guarantee that already-visited entries are
// unaffected.
type Iterator[K comparable, V any] struct {
	m       *LinkedMultiMap[K, V]
	current int32
	done    bool
}

// Iterator returns a fresh iterator positioned before the first entry.
func (m *LinkedMultiMap[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, current: headIdx}
}

// HasNext reports whether another entry remains.
func (it *Iterator[K, V]) HasNext() bool {
	return !it.done && it.m.arena.at(it.current).after != headIdx
}

// Next advances to and returns the next entry. Advancing past the final
// entry returns ErrIteratorExhausted, as does every call thereafter.
func (it *Iterator[K, V]) Next() (Entry[K, V], error) {
	if it.done {
		return Entry[K, V]{}, ErrIteratorExhausted
	}

	it.current = it.m.arena.at(it.current).after
	if it.current == headIdx {
		it.done = true
		return Entry[K, V]{}, ErrIteratorExhausted
	}

	e := it.m.arena.at(it.current)
	return Entry[K, V]{Key: e.key, Value: e.value}, nil
}

// Remove is unsupported: entries cannot be removed through an iterator.
func (it *Iterator[K, V]) Remove() error {
	return ErrIteratorRemovalUnsupported
}

// SetValue replaces the value of the entry most recently returned by
// Next, passing raw through the map's conversion hook, and returns the
// value replaced. It fails if Next has not yet been called or the
// iterator is exhausted.
func (it *Iterator[K, V]) SetValue(raw any) (V, error) {
	var old V
	if it.done || it.current == headIdx {
		return old, fmt.Errorf("%w: iterator has no current entry", ErrIteratorExhausted)
	}

	converted, err := it.m.conf.convertValue(raw)
	if err != nil {
		return old, err
	}

	e := it.m.arena.at(it.current)
	old = e.value
	e.value = converted
	return old, nil
}
