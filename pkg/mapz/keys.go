package mapz

import (
	"cmp"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// KeyProfile pairs the hash and comparison functions used to locate
// keys. Lookup is hash-directed but equality is comparator-defined, so
// the two must agree: keys that compare equal must hash identically.
type KeyProfile[K comparable] struct {
	// Hash computes the bucket hash for a key.
	Hash func(key K) uint64

	// Compare orders two keys; keys are the same key when it returns 0.
	Compare func(a, b K) int
}

// OrderedKeys is the default profile for naturally ordered keys. The
// hash seed is drawn per profile, so hashes are not stable across maps
// or processes.
func OrderedKeys[K cmp.Ordered]() KeyProfile[K] {
	seed := maphash.MakeSeed()
	return KeyProfile[K]{
		Hash:    func(key K) uint64 { return maphash.Comparable(seed, key) },
		Compare: cmp.Compare[K],
	}
}

// StringKeys is a profile for case-sensitive string keys.
func StringKeys() KeyProfile[string] {
	return KeyProfile[string]{
		Hash:    xxhash.Sum64String,
		Compare: cmp.Compare[string],
	}
}

// CaseInsensitiveStringKeys is a profile that folds ASCII case in both
// the hash and the comparison, so "X" and "x" are the same key.
func CaseInsensitiveStringKeys() KeyProfile[string] {
	return KeyProfile[string]{
		Hash:    foldedSum64,
		Compare: compareFold,
	}
}

// foldedSum64 hashes the ASCII-lowercased form of key without
// allocating the folded string.
func foldedSum64(key string) uint64 {
	digest := xxhash.New()

	var buf [64]byte
	for len(key) > 0 {
		n := min(len(key), len(buf))
		for i := range n {
			buf[i] = foldByte(key[i])
		}

		// NOTE: xxhash's Write never returns an error, per its documentation.
		_, _ = digest.Write(buf[:n])
		key = key[n:]
	}
	return digest.Sum64()
}

// compareFold orders two strings by their ASCII-lowercased forms,
// consistent with foldedSum64.
func compareFold(a, b string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ca, cb := foldByte(a[i]), foldByte(b[i])
		if ca != cb {
			return cmp.Compare(ca, cb)
		}
	}
	return cmp.Compare(len(a), len(b))
}

func foldByte(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
