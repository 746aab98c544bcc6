package mapz

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// modelKeys is a small alphabet so operations collide on keys often.
var modelKeys = []string{"a", "b", "B", "cc", "d", "e"}

// TestLinkedMultiMapMatchesModel replays random operation sequences
// against a naive ordered-pairs model and checks the observable state
// and the internal structure after every step.
func TestLinkedMultiMapMatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bucketCount := rapid.SampledFrom([]int{1, 3, 17}).Draw(t, "bucketCount")
		mm := New[string, int](WithBucketCount[string, int](bucketCount))
		model := []Entry[string, int]{}

		keyGen := rapid.SampledFrom(modelKeys)
		valueGen := rapid.IntRange(0, 1000)

		t.Repeat(map[string]func(*rapid.T){
			"add": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")
				value := valueGen.Draw(t, "value")
				require.NoError(t, mm.Add(key, value))
				model = append(model, Entry[string, int]{key, value})
			},
			"addAll": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")
				drawn := rapid.SliceOfN(valueGen, 0, 4).Draw(t, "values")
				values := make([]any, 0, len(drawn))
				for _, value := range drawn {
					values = append(values, value)
					model = append(model, Entry[string, int]{key, value})
				}
				require.NoError(t, mm.AddAll(key, values...))
			},
			"set": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")
				value := valueGen.Draw(t, "value")
				require.NoError(t, mm.Set(key, value))
				model = slices.DeleteFunc(model, func(e Entry[string, int]) bool {
					return e.Key == key
				})
				model = append(model, Entry[string, int]{key, value})
			},
			"remove": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")
				hadKey := slices.ContainsFunc(model, func(e Entry[string, int]) bool {
					return e.Key == key
				})
				removed, err := mm.Remove(key)
				require.NoError(t, err)
				require.Equal(t, hadKey, removed)
				model = slices.DeleteFunc(model, func(e Entry[string, int]) bool {
					return e.Key == key
				})
			},
			"clear": func(t *rapid.T) {
				mm.Clear()
				model = model[:0]
			},
			"": func(t *rapid.T) {
				requireMatchesModel(t, mm, model)
				requireInternallyConsistent(t, mm)
			},
		})
	})
}

func requireMatchesModel(t require.TestingT, mm *LinkedMultiMap[string, int], model []Entry[string, int]) {
	require.Equal(t, len(model), mm.Len())
	require.Equal(t, len(model) == 0, mm.IsEmpty())

	entries := mm.Entries()
	require.Equal(t, len(model), len(entries))
	for i := range model {
		require.Equal(t, model[i], entries[i])
	}

	distinct := []string{}
	seen := map[string]struct{}{}
	for _, e := range model {
		if _, ok := seen[e.Key]; !ok {
			seen[e.Key] = struct{}{}
			distinct = append(distinct, e.Key)
		}
	}
	require.Equal(t, distinct, mm.Keys())

	for _, key := range modelKeys {
		expected := []int{}
		for _, e := range model {
			if e.Key == key {
				expected = append(expected, e.Value)
			}
		}

		values, err := mm.GetAll(key)
		require.NoError(t, err)
		require.Equal(t, expected, values)

		value, ok, err := mm.Get(key)
		require.NoError(t, err)
		require.Equal(t, len(expected) > 0, ok)
		if ok {
			require.Equal(t, expected[0], value)
		}

		contains, err := mm.Contains(key)
		require.NoError(t, err)
		require.Equal(t, ok, contains)
	}
}

// requireInternallyConsistent checks that the order ring and the bucket
// chains agree with the size counter and with each other.
func requireInternallyConsistent(t require.TestingT, mm *LinkedMultiMap[string, int]) {
	onRing := map[int32]struct{}{}
	forward := 0
	for idx := mm.arena.at(headIdx).after; idx != headIdx; idx = mm.arena.at(idx).after {
		e := mm.arena.at(idx)
		require.Equal(t, idx, mm.arena.at(e.after).before)
		require.Equal(t, idx, mm.arena.at(e.before).after)
		onRing[idx] = struct{}{}
		forward++
	}
	require.Equal(t, mm.size, forward)

	// Every chained entry sits on the ring exactly once, and the chain
	// lengths sum to the size.
	chained := 0
	for _, head := range mm.buckets {
		for idx := head; idx != nilIdx; idx = mm.arena.at(idx).next {
			_, ok := onRing[idx]
			require.True(t, ok)
			chained++
		}
	}
	require.Equal(t, mm.size, chained)
}
