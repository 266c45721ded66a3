package seq

import (
	"github.com/ccoveille/go-safecast/v2"

	"github.com/kbukum/seqkit/errors"
)

// Where keeps only the elements that satisfy pred. Calling Where on a sequence
// produced by Where narrows the existing filter: both predicates must hold.
func (s *Sequence[T]) Where(pred func(T) bool) *Sequence[T] {
	if s.err != nil {
		return s
	}
	if pred == nil {
		return failed[T](errors.NullArgument("predicate"))
	}
	if f := s.filter; f != nil {
		upstream, prev := f.upstream, f.pred
		out := newSequence(func() Cursor[T] {
			return newFilterCursor(upstream.open(), prev).where(pred)
		})
		out.filter = &filterStage[T]{
			upstream: upstream,
			pred:     func(v T) bool { return prev(v) && pred(v) },
		}
		return out
	}
	out := newSequence(func() Cursor[T] {
		return newFilterCursor(s.open(), pred)
	})
	out.filter = &filterStage[T]{upstream: s, pred: pred}
	return out
}

// TakeWhile yields elements while pred holds and stops at the first element
// that fails it. Upstream is not pulled past that element.
func (s *Sequence[T]) TakeWhile(pred func(T) bool) *Sequence[T] {
	if s.err != nil {
		return s
	}
	if pred == nil {
		return failed[T](errors.NullArgument("predicate"))
	}
	return derive(s, func(c Cursor[T]) Cursor[T] {
		return newTakeWhileCursor(c, pred)
	})
}

// Concat yields every element of s followed by every element of other.
func (s *Sequence[T]) Concat(other *Sequence[T]) *Sequence[T] {
	if s.err != nil {
		return s
	}
	if other == nil {
		return failed[T](errors.NullArgument("other"))
	}
	if other.err != nil {
		return other
	}
	return newSequence(func() Cursor[T] {
		return newCombineCursor(s.open(), other.open())
	})
}

// DefaultIfEmpty returns s unchanged in content when it has elements, otherwise
// a sequence holding the zero value of T.
func (s *Sequence[T]) DefaultIfEmpty() *Sequence[T] {
	var zero T
	return s.DefaultIfEmptyWith(zero)
}

// DefaultIfEmptyWith returns s unchanged in content when it has elements,
// otherwise a sequence holding only value. Emptiness is checked when
// DefaultIfEmptyWith is called.
func (s *Sequence[T]) DefaultIfEmptyWith(value T) *Sequence[T] {
	nonEmpty, err := s.Any()
	if err != nil {
		return failed[T](err)
	}
	if nonEmpty {
		return Select(s, func(v T) T { return v })
	}
	singleton := []T{value}
	return newSequence(func() Cursor[T] {
		return newSliceCursor(singleton)
	})
}

// Select transforms each element with fn.
func Select[T, U any](s *Sequence[T], fn func(T) U) *Sequence[U] {
	if fn == nil {
		return failed[U](errors.NullArgument("selector"))
	}
	return derive(s, func(c Cursor[T]) Cursor[U] {
		return newMapCursor(c, fn)
	})
}

// Cast converts each element to U using Go's conversion rules. Values that do
// not fit U are truncated or wrapped, never rejected.
func Cast[U, T Number](s *Sequence[T]) *Sequence[U] {
	return Select(s, func(v T) U { return U(v) })
}

// CastChecked converts every element to U and returns the results. Fails with
// OUT_OF_RANGE at the first value that U cannot represent.
func CastChecked[U, T Number](s *Sequence[T]) ([]U, error) {
	c, err := s.Enumerator()
	if err != nil {
		return nil, err
	}
	result := make([]U, 0)
	for i := 0; c.MoveNext(); i++ {
		v, convErr := safecast.Convert[U](c.Current())
		if convErr != nil {
			return nil, errors.OutOfRange(i, -1).
				WithDetail("value", c.Current()).
				WithCause(convErr)
		}
		result = append(result, v)
	}
	return result, nil
}

// Distinct keeps the first occurrence of each value, preserving order.
//
// The set of values already seen belongs to a single traversal: each terminal
// operation, and each Reset of a cursor from Enumerator, starts with an empty
// set. Re-running a distinct sequence therefore always yields the same values.
func Distinct[T comparable](s *Sequence[T]) *Sequence[T] {
	return DistinctBy(s, func(v T) T { return v })
}

// DistinctBy keeps the first element for each key, preserving order. The seen
// set follows the same per-traversal rule as Distinct.
func DistinctBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[T] {
	if key == nil {
		return failed[T](errors.NullArgument("key selector"))
	}
	return derive(s, func(c Cursor[T]) Cursor[T] {
		return newDistinctCursor(c, key)
	})
}

// Except removes every element equal to some element of excluded. excluded is
// read once, when Except is called, into a set.
func Except[T comparable](s *Sequence[T], excluded *Sequence[T]) *Sequence[T] {
	if s.err != nil {
		return s
	}
	if excluded == nil {
		return failed[T](errors.NullArgument("excluded"))
	}
	set, err := ToMap(excluded, func(v T) T { return v })
	if err != nil {
		return failed[T](err)
	}
	return derive(s, func(c Cursor[T]) Cursor[T] {
		return newFilterCursor(c, func(v T) bool {
			_, found := set[v]
			return !found
		})
	})
}

// ExceptFunc removes every element for which equals reports true against some
// element of excluded. excluded is scanned for each element.
func (s *Sequence[T]) ExceptFunc(excluded *Sequence[T], equals func(x, y T) bool) *Sequence[T] {
	if s.err != nil {
		return s
	}
	if excluded == nil {
		return failed[T](errors.NullArgument("excluded"))
	}
	if equals == nil {
		return failed[T](errors.NullArgument("equals"))
	}
	if excluded.err != nil {
		return failed[T](excluded.err)
	}
	return derive(s, func(c Cursor[T]) Cursor[T] {
		return newFilterCursor(c, func(v T) bool {
			return !anyInCursor(excluded.open(), func(x T) bool { return equals(v, x) })
		})
	})
}

// anyInCursor scans c from the start and stops at the first match.
func anyInCursor[T any](c Cursor[T], pred func(T) bool) bool {
	for c.MoveNext() {
		if pred(*c.CurrentRef()) {
			return true
		}
	}
	return false
}
