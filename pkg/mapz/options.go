package mapz

import (
	"fmt"
	"reflect"
)

// DefaultBucketCount is the number of hash buckets a map uses unless
// configured otherwise. The bucket table is sized once at construction
// and never grows, so pathological key sets degrade to a linear chain
// walk; this is a deliberate simplicity tradeoff.
const DefaultBucketCount = 17

type config[K comparable, V any] struct {
	bucketCount   int
	validateKey   func(key K) error
	convertValue  func(raw any) (V, error)
	compareValues func(a, b V) int
}

// Option configures a LinkedMultiMap at construction.
type Option[K comparable, V any] func(*config[K, V])

// WithBucketCount fixes the number of hash buckets for the life of the
// map. Counts below one are treated as one.
func WithBucketCount[K comparable, V any](count int) Option[K, V] {
	return func(conf *config[K, V]) {
		conf.bucketCount = max(count, 1)
	}
}

// WithKeyValidator installs a validator run on every key-accepting
// operation. A non-nil result is surfaced wrapped in ErrInvalidKey.
func WithKeyValidator[K comparable, V any](validate func(key K) error) Option[K, V] {
	return func(conf *config[K, V]) {
		conf.validateKey = validate
	}
}

// WithValueConverter installs the hook that turns a raw value into the
// stored value type. The hook is responsible for rejecting nil raw
// values; the default converter does so with ErrInvalidValue.
func WithValueConverter[K comparable, V any](convert func(raw any) (V, error)) Option[K, V] {
	return func(conf *config[K, V]) {
		conf.convertValue = convert
	}
}

// WithValueComparator installs the default value comparison used by
// ContainsValue; values are equal when it returns 0.
func WithValueComparator[K comparable, V any](compare func(a, b V) int) Option[K, V] {
	return func(conf *config[K, V]) {
		conf.compareValues = compare
	}
}

// assertValue is the default conversion hook: a plain type assertion to
// the stored value type.
func assertValue[V any](raw any) (V, error) {
	var zero V
	if raw == nil {
		return zero, fmt.Errorf("%w: value is nil", ErrInvalidValue)
	}

	value, ok := raw.(V)
	if !ok {
		return zero, NewConversionErr(raw)
	}
	return value, nil
}

// deepEqualCompare is the default value comparison: equality by
// reflect.DeepEqual, with no meaningful order between unequal values.
func deepEqualCompare[V any](a, b V) int {
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return 1
}
