// Package mapz provides an insertion-ordered multimap: a container in
// which a single key may carry several values, iteration follows the
// order entries were added across all keys, and key equality is
// configurable (for example, case-insensitive).
package mapz

import (
	"cmp"
	"fmt"
	"iter"
)

// ReadOnlyMultimap is a read-only view of an insertion-ordered multimap.
type ReadOnlyMultimap[K comparable, V any] interface {
	// Get returns the first value added for the key and whether the key
	// existed.
	Get(key K) (V, bool, error)

	// GetAll returns every value for the key, in the order the values
	// were added. If the key does not exist, an empty slice is returned.
	GetAll(key K) ([]V, error)

	// Contains returns true if the key is found in the map.
	Contains(key K) (bool, error)

	// Entries returns a snapshot of all entries in insertion order.
	Entries() []Entry[K, V]

	// Keys returns the distinct keys of the map in first-seen order.
	Keys() []K

	// IsEmpty returns true if the map is currently empty.
	IsEmpty() bool

	// Len returns the number of entries in the map.
	Len() int
}

// Entry is one key/value pair in a snapshot of the map.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// LinkedMultiMap is a multimap that preserves global insertion order.
// Entries are stored in a fixed-size bucket table of head-inserted
// collision chains for lookup, and threaded onto a circular ring for
// ordered iteration.
//
// The zero value is not usable; construct with New or NewWithProfile.
//
// LinkedMultiMap is not safe for concurrent use. It assumes a single
// owner at a time; callers needing shared access must synchronize
// externally. Mutating the map while iterating it is unsupported.
type LinkedMultiMap[K comparable, V any] struct {
	profile KeyProfile[K]
	conf    config[K, V]
	buckets []int32
	arena   *arena[K, V]
	size    int
}

// New initializes a LinkedMultiMap for naturally ordered keys.
func New[K cmp.Ordered, V any](opts ...Option[K, V]) *LinkedMultiMap[K, V] {
	return NewWithProfile[K, V](OrderedKeys[K](), opts...)
}

// NewWithProfile initializes a LinkedMultiMap with the given key
// profile, which determines both hashing and key equality.
func NewWithProfile[K comparable, V any](profile KeyProfile[K], opts ...Option[K, V]) *LinkedMultiMap[K, V] {
	conf := config[K, V]{
		bucketCount:   DefaultBucketCount,
		convertValue:  assertValue[V],
		compareValues: deepEqualCompare[V],
	}
	for _, opt := range opts {
		opt(&conf)
	}

	m := &LinkedMultiMap[K, V]{
		profile: profile,
		conf:    conf,
		buckets: make([]int32, conf.bucketCount),
		arena:   newArena[K, V](),
	}
	for i := range m.buckets {
		m.buckets[i] = nilIdx
	}
	return m
}

var _ ReadOnlyMultimap[string, int] = (*LinkedMultiMap[string, int])(nil)

func (m *LinkedMultiMap[K, V]) hashKey(key K) (uint64, int) {
	h := m.profile.Hash(key)
	return h, int(h % uint64(len(m.buckets)))
}

func (m *LinkedMultiMap[K, V]) checkKey(key K) error {
	if m.conf.validateKey == nil {
		return nil
	}
	if err := m.conf.validateKey(key); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return nil
}

// matches reports whether the entry's key is the given key under the
// map's key profile. The cached hash is checked first.
func (m *LinkedMultiMap[K, V]) matches(e *entry[K, V], hash uint64, key K) bool {
	return e.hash == hash && m.profile.Compare(key, e.key) == 0
}

// add0 inserts a converted value: the new entry is pushed onto the head
// of its bucket chain and appended to the tail of the order ring.
func (m *LinkedMultiMap[K, V]) add0(hash uint64, bucket int, key K, value V) error {
	idx, err := m.arena.alloc(hash, key, value)
	if err != nil {
		return err
	}

	m.arena.at(idx).next = m.buckets[bucket]
	m.buckets[bucket] = idx

	m.arena.linkBefore(idx, headIdx)
	m.size++
	return nil
}

// Add inserts the value into the map at the given key, after passing it
// through the value conversion hook.
//
// Existing values for the key are untouched: a value can be added
// twice, if this method is called twice for the same value.
func (m *LinkedMultiMap[K, V]) Add(key K, value any) error {
	if err := m.checkKey(key); err != nil {
		return err
	}
	converted, err := m.conf.convertValue(value)
	if err != nil {
		return err
	}

	hash, bucket := m.hashKey(key)
	return m.add0(hash, bucket, key, converted)
}

// AddAll inserts the values in order at the given key. A nil value
// terminates the sequence silently: it is not added, no later values
// are added, and values added before it remain.
func (m *LinkedMultiMap[K, V]) AddAll(key K, values ...any) error {
	if err := m.checkKey(key); err != nil {
		return err
	}

	hash, bucket := m.hashKey(key)
	return m.addAll0(hash, bucket, key, values)
}

func (m *LinkedMultiMap[K, V]) addAll0(hash uint64, bucket int, key K, values []any) error {
	for _, raw := range values {
		if raw == nil {
			break
		}
		converted, err := m.conf.convertValue(raw)
		if err != nil {
			return err
		}
		if err := m.add0(hash, bucket, key, converted); err != nil {
			return err
		}
	}
	return nil
}

// AddSeq inserts the values yielded by the sequence, with the same
// nil-terminator semantics as AddAll. A nil sequence is rejected with
// ErrNilSource.
func (m *LinkedMultiMap[K, V]) AddSeq(key K, values iter.Seq[any]) error {
	if values == nil {
		return fmt.Errorf("%w: nil values sequence", ErrNilSource)
	}
	if err := m.checkKey(key); err != nil {
		return err
	}

	hash, bucket := m.hashKey(key)
	for raw := range values {
		if raw == nil {
			break
		}
		converted, err := m.conf.convertValue(raw)
		if err != nil {
			return err
		}
		if err := m.add0(hash, bucket, key, converted); err != nil {
			return err
		}
	}
	return nil
}

// AddMultimap inserts every entry of the source, in the source's
// insertion order. A nil source is rejected with ErrNilSource.
func (m *LinkedMultiMap[K, V]) AddMultimap(source ReadOnlyMultimap[K, V]) error {
	if source == nil {
		return fmt.Errorf("%w: nil source multimap", ErrNilSource)
	}
	return m.addMultimap0(source)
}

func (m *LinkedMultiMap[K, V]) addMultimap0(source ReadOnlyMultimap[K, V]) error {
	if source.IsEmpty() {
		return nil
	}

	// Walk a LinkedMultiMap source's order ring directly rather than
	// materializing a snapshot; the result is identical.
	if lmm, ok := source.(*LinkedMultiMap[K, V]); ok {
		for idx := lmm.arena.at(headIdx).after; idx != headIdx; idx = lmm.arena.at(idx).after {
			e := lmm.arena.at(idx)
			if err := m.Add(e.key, e.value); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ent := range source.Entries() {
		if err := m.Add(ent.Key, ent.Value); err != nil {
			return err
		}
	}
	return nil
}

// Set replaces all values for the key with the single given value. The
// new entry lands at the current tail of the insertion order, not at
// the removed entries' old positions.
func (m *LinkedMultiMap[K, V]) Set(key K, value any) error {
	if err := m.checkKey(key); err != nil {
		return err
	}
	converted, err := m.conf.convertValue(value)
	if err != nil {
		return err
	}

	hash, bucket := m.hashKey(key)
	m.remove0(hash, bucket, key)
	return m.add0(hash, bucket, key, converted)
}

// SetAll replaces all values for the key with the given values, with
// the same nil-terminator semantics as AddAll.
func (m *LinkedMultiMap[K, V]) SetAll(key K, values ...any) error {
	if err := m.checkKey(key); err != nil {
		return err
	}

	hash, bucket := m.hashKey(key)
	m.remove0(hash, bucket, key)
	return m.addAll0(hash, bucket, key, values)
}

// SetMultimap clears the map and copies in every entry of the source,
// in the source's insertion order.
func (m *LinkedMultiMap[K, V]) SetMultimap(source ReadOnlyMultimap[K, V]) error {
	if source == nil {
		return fmt.Errorf("%w: nil source multimap", ErrNilSource)
	}

	m.Clear()
	return m.addMultimap0(source)
}

// Remove removes every entry matching the key, reporting whether any
// entry was removed. A missing key is not an error.
func (m *LinkedMultiMap[K, V]) Remove(key K) (bool, error) {
	if err := m.checkKey(key); err != nil {
		return false, err
	}

	hash, bucket := m.hashKey(key)
	return m.remove0(hash, bucket, key), nil
}

func (m *LinkedMultiMap[K, V]) remove0(hash uint64, bucket int, key K) bool {
	idx := m.buckets[bucket]
	if idx == nilIdx {
		return false
	}

	removed := false

	// Pop matching entries off the chain head.
	for {
		e := m.arena.at(idx)
		if !m.matches(e, hash, key) {
			break
		}

		next := e.next
		m.detach(idx)
		m.buckets[bucket] = next
		if next == nilIdx {
			return true
		}
		idx = next
		removed = true
	}

	// Splice out any later matches in a single walk of the remainder.
	for {
		e := m.arena.at(idx)
		next := e.next
		if next == nilIdx {
			break
		}

		if m.matches(m.arena.at(next), hash, key) {
			e.next = m.arena.at(next).next
			m.detach(next)
			removed = true
		} else {
			idx = next
		}
	}

	return removed
}

// detach unlinks the entry from the order ring and recycles its arena
// slot. The caller is responsible for the bucket chain.
func (m *LinkedMultiMap[K, V]) detach(idx int32) {
	m.arena.unlink(idx)
	m.arena.release(idx)
	m.size--
}

// Clear removes all entries from the map. Clearing an empty map is a
// no-op.
func (m *LinkedMultiMap[K, V]) Clear() {
	for i := range m.buckets {
		m.buckets[i] = nilIdx
	}
	m.arena.reset()
	m.size = 0
}

// Get returns the first value added for the key and whether the key
// existed.
//
// "First" is a consequence of chain order: chains are head-inserted,
// so a head-to-tail walk visits the oldest match last and that match
// wins. Note the contrast with GetAll, which returns every value in
// the order added.
func (m *LinkedMultiMap[K, V]) Get(key K) (V, bool, error) {
	var value V
	if err := m.checkKey(key); err != nil {
		return value, false, err
	}

	hash, bucket := m.hashKey(key)
	found := false
	for idx := m.buckets[bucket]; idx != nilIdx; idx = m.arena.at(idx).next {
		e := m.arena.at(idx)
		if m.matches(e, hash, key) {
			value = e.value
			found = true
		}
	}
	return value, found, nil
}

// GetAll returns every value for the key, in the order the values were
// added. If the key does not exist, an empty slice is returned.
//
// The order falls out of reversing a head-to-tail chain walk, chains
// being head-inserted; the reversal is part of the contract.
func (m *LinkedMultiMap[K, V]) GetAll(key K) ([]V, error) {
	if err := m.checkKey(key); err != nil {
		return nil, err
	}

	values := []V{}
	hash, bucket := m.hashKey(key)
	for idx := m.buckets[bucket]; idx != nilIdx; idx = m.arena.at(idx).next {
		e := m.arena.at(idx)
		if m.matches(e, hash, key) {
			values = append(values, e.value)
		}
	}

	// The chain was walked newest-first; restore insertion order.
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
	return values, nil
}

// Contains returns true if the key is found in the map.
func (m *LinkedMultiMap[K, V]) Contains(key K) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// ContainsValue returns true if any entry for the key holds a value
// equal to the given raw value under the map's value comparator. The
// raw value passes through the conversion hook first.
func (m *LinkedMultiMap[K, V]) ContainsValue(key K, value any) (bool, error) {
	return m.ContainsValueFunc(key, value, m.conf.compareValues)
}

// ContainsValueFunc is ContainsValue with an explicit value comparator;
// values are equal when it returns 0. A nil comparator falls back to
// the map's default.
func (m *LinkedMultiMap[K, V]) ContainsValueFunc(key K, value any, compare func(a, b V) int) (bool, error) {
	if err := m.checkKey(key); err != nil {
		return false, err
	}
	if compare == nil {
		compare = m.conf.compareValues
	}

	converted, err := m.conf.convertValue(value)
	if err != nil {
		return false, err
	}

	hash, bucket := m.hashKey(key)
	for idx := m.buckets[bucket]; idx != nilIdx; idx = m.arena.at(idx).next {
		e := m.arena.at(idx)
		if m.matches(e, hash, key) && compare(e.value, converted) == 0 {
			return true, nil
		}
	}
	return false, nil
}

// Entries returns a snapshot of all entries in insertion order.
// Modifying the returned slice does not affect the map.
func (m *LinkedMultiMap[K, V]) Entries() []Entry[K, V] {
	all := make([]Entry[K, V], 0, m.size)
	for idx := m.arena.at(headIdx).after; idx != headIdx; idx = m.arena.at(idx).after {
		e := m.arena.at(idx)
		all = append(all, Entry[K, V]{Key: e.key, Value: e.value})
	}
	return all
}

// Keys returns the distinct keys of the map in first-seen order.
//
// Distinctness here is Go equality on K, not the key profile's
// comparator: under a case-insensitive profile, "X" and "x" entries
// yield two keys.
func (m *LinkedMultiMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	seen := make(map[K]struct{}, m.size)
	for idx := m.arena.at(headIdx).after; idx != headIdx; idx = m.arena.at(idx).after {
		e := m.arena.at(idx)
		if _, ok := seen[e.key]; ok {
			continue
		}
		seen[e.key] = struct{}{}
		keys = append(keys, e.key)
	}
	return keys
}

// IsEmpty returns true if the map is currently empty.
func (m *LinkedMultiMap[K, V]) IsEmpty() bool {
	return m.arena.at(headIdx).after == headIdx
}

// Len returns the number of entries in the map.
func (m *LinkedMultiMap[K, V]) Len() int {
	return m.size
}

// All returns a one-pass sequence over the entries in insertion order.
// Each call yields a fresh sequence; the map must not be mutated while
// ranging.
func (m *LinkedMultiMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for idx := m.arena.at(headIdx).after; idx != headIdx; idx = m.arena.at(idx).after {
			e := m.arena.at(idx)
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Values returns a one-pass sequence over all values in insertion
// order.
func (m *LinkedMultiMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for idx := m.arena.at(headIdx).after; idx != headIdx; idx = m.arena.at(idx).after {
			if !yield(m.arena.at(idx).value) {
				return
			}
		}
	}
}
