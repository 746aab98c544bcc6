// Package headers provides a protocol-style header block: a
// case-insensitive, insertion-ordered multimap of string names to
// string values, with conversion of common Go types to their wire
// string form.
package headers

import (
	"errors"
	"iter"
	"strings"

	"github.com/authzed/mapz/pkg/mapz"
)

// Headers is an insertion-ordered collection of name/value pairs with
// case-insensitive names. Like the underlying multimap, it is not safe
// for concurrent use.
type Headers struct {
	mm *mapz.LinkedMultiMap[string, string]
}

// NewHeaders initializes an empty header block.
func NewHeaders() *Headers {
	return &Headers{
		mm: mapz.NewWithProfile[string, string](
			mapz.CaseInsensitiveStringKeys(),
			mapz.WithKeyValidator[string, string](validateName),
			mapz.WithValueConverter[string, string](convertValue),
		),
	}
}

func validateName(name string) error {
	if name == "" {
		return errors.New("header name is empty")
	}
	return nil
}

// Add appends a header. The value may be any type convertValue accepts.
func (h *Headers) Add(name string, value any) error {
	return h.mm.Add(name, value)
}

// AddAll appends headers for each value in order; a nil value
// terminates the list silently.
func (h *Headers) AddAll(name string, values ...any) error {
	return h.mm.AddAll(name, values...)
}

// AddHeaders appends every entry of the source block, in its order.
func (h *Headers) AddHeaders(source *Headers) error {
	if source == nil {
		return h.mm.AddMultimap(nil)
	}
	return h.mm.AddMultimap(source.mm)
}

// Set replaces all values of the header with the single given value.
func (h *Headers) Set(name string, value any) error {
	return h.mm.Set(name, value)
}

// SetAll replaces all values of the header with the given values; a nil
// value terminates the list silently.
func (h *Headers) SetAll(name string, values ...any) error {
	return h.mm.SetAll(name, values...)
}

// Get returns the first value added for the header and whether the
// header exists.
func (h *Headers) Get(name string) (string, bool, error) {
	return h.mm.Get(name)
}

// GetAll returns every value of the header in the order added.
func (h *Headers) GetAll(name string) ([]string, error) {
	return h.mm.GetAll(name)
}

// Contains reports whether the header exists.
func (h *Headers) Contains(name string) (bool, error) {
	return h.mm.Contains(name)
}

// ContainsValue reports whether the header has the given value,
// compared case-sensitively after conversion.
func (h *Headers) ContainsValue(name string, value any) (bool, error) {
	return h.mm.ContainsValue(name, value)
}

// ContainsValueFold is ContainsValue with case-insensitive value
// comparison.
func (h *Headers) ContainsValueFold(name string, value any) (bool, error) {
	return h.mm.ContainsValueFunc(name, value, func(a, b string) int {
		if strings.EqualFold(a, b) {
			return 0
		}
		return 1
	})
}

// Remove removes every value of the header, reporting whether any was
// removed.
func (h *Headers) Remove(name string) (bool, error) {
	return h.mm.Remove(name)
}

// Clear removes all headers.
func (h *Headers) Clear() {
	h.mm.Clear()
}

// Names returns the distinct header names in first-seen order, with the
// casing they were added under.
func (h *Headers) Names() []string {
	return h.mm.Keys()
}

// Entries returns a snapshot of all headers in insertion order.
func (h *Headers) Entries() []mapz.Entry[string, string] {
	return h.mm.Entries()
}

// IsEmpty reports whether no headers are present.
func (h *Headers) IsEmpty() bool {
	return h.mm.IsEmpty()
}

// Len returns the number of header entries.
func (h *Headers) Len() int {
	return h.mm.Len()
}

// All returns a one-pass sequence over the headers in insertion order.
func (h *Headers) All() iter.Seq2[string, string] {
	return h.mm.All()
}
