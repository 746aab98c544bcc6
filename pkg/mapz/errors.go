package mapz

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when a key is rejected by the map's key
	// validator.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidValue is returned when a raw value cannot be converted
	// into the map's value type, including a nil raw value given to a
	// single-value Add or Set.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNilSource is returned when a nil source multimap or values
	// sequence is supplied.
	ErrNilSource = errors.New("source was nil")

	// ErrIteratorExhausted is returned when an iterator is advanced past
	// its final entry.
	ErrIteratorExhausted = errors.New("iterator exhausted")

	// ErrIteratorRemovalUnsupported is returned by Iterator.Remove;
	// entries cannot be removed through an iterator.
	ErrIteratorRemovalUnsupported = errors.New("removal via iterator is not supported")
)

// ConversionError is an invalid value error recording the Go type of the
// raw value that could not be converted.
type ConversionError struct {
	error

	rawType string
}

// NewConversionErr constructs an error for a raw value the conversion
// hook could not interpret.
func NewConversionErr(raw any) error {
	return ConversionError{
		error:   fmt.Errorf("%w: cannot convert value of type %T", ErrInvalidValue, raw),
		rawType: fmt.Sprintf("%T", raw),
	}
}

// RawType returns the name of the rejected value's Go type.
func (err ConversionError) RawType() string {
	return err.rawType
}

// Unwrap returns the inner, wrapped error.
func (err ConversionError) Unwrap() error {
	return err.error
}
