package seq

import (
	"cmp"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/kbukum/seqkit/errors"
)

// ToMap runs the query and indexes the elements by key. When two elements
// share a key the first one is kept.
func ToMap[T any, K comparable](s *Sequence[T], key func(T) K) (map[K]T, error) {
	return ToMapSelect(s, key, func(v T) T { return v })
}

// ToMapSelect runs the query and maps key(v) to sel(v) for every element.
// When two elements share a key the first one is kept.
func ToMapSelect[T any, K comparable, V any](s *Sequence[T], key func(T) K, sel func(T) V) (map[K]V, error) {
	if key == nil {
		return nil, errors.NullArgument("key selector")
	}
	if sel == nil {
		return nil, errors.NullArgument("result selector")
	}
	result, err := Aggregate(s, make(map[K]V), func(m map[K]V, v T) map[K]V {
		k := key(v)
		if _, exists := m[k]; !exists {
			m[k] = sel(v)
		}
		return m
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ToSortedMap runs the query into a red-black tree keyed by key(v), iterated in
// ascending key order. When two elements share a key the first one is kept.
func ToSortedMap[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) (*treemap.Map, error) {
	if key == nil {
		return nil, errors.NullArgument("key selector")
	}
	tree := treemap.NewWith(func(a, b interface{}) int {
		return cmp.Compare(a.(K), b.(K))
	})
	result, err := Aggregate(s, tree, func(m *treemap.Map, v T) *treemap.Map {
		k := key(v)
		if _, exists := m.Get(k); !exists {
			m.Put(k, v)
		}
		return m
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
