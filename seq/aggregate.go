package seq

import (
	"golang.org/x/exp/constraints"

	"github.com/kbukum/seqkit/errors"
)

// Number is any integer or floating-point type, excluding uintptr.
type Number interface {
	constraints.Signed | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | constraints.Float
}

// Fold combines the elements left to right, starting from the first element.
// Fails with INVALID_OPERATION when the sequence is empty.
func (s *Sequence[T]) Fold(acc func(T, T) T) (T, error) {
	var zero T
	if acc == nil {
		return zero, errors.NullArgument("accumulator")
	}
	c, err := s.Enumerator()
	if err != nil {
		return zero, err
	}
	if !c.MoveNext() {
		return zero, errors.InvalidOperation("cannot aggregate an empty sequence")
	}
	return fold(c, c.Current(), acc), nil
}

// Aggregate combines the elements left to right, starting from seed.
// An empty sequence yields seed.
func Aggregate[T, A any](s *Sequence[T], seed A, acc func(A, T) A) (A, error) {
	if acc == nil {
		return seed, errors.NullArgument("accumulator")
	}
	c, err := s.Enumerator()
	if err != nil {
		return seed, err
	}
	return fold(c, seed, acc), nil
}

// AggregateSelect is Aggregate followed by sel applied to the final accumulator.
func AggregateSelect[T, A, R any](s *Sequence[T], seed A, acc func(A, T) A, sel func(A) R) (R, error) {
	var zero R
	if sel == nil {
		return zero, errors.NullArgument("result selector")
	}
	total, err := Aggregate(s, seed, acc)
	if err != nil {
		return zero, err
	}
	return sel(total), nil
}

// Count returns the number of elements.
func (s *Sequence[T]) Count() (int, error) {
	return Aggregate(s, 0, func(n int, _ T) int { return n + 1 })
}

// CountWhere returns the number of elements that satisfy pred.
func (s *Sequence[T]) CountWhere(pred func(T) bool) (int, error) {
	if pred == nil {
		return 0, errors.NullArgument("predicate")
	}
	return s.Where(pred).Count()
}

type runningMean struct {
	sum   float64
	count int
}

// Average returns the arithmetic mean of sel over the elements, accumulated in
// float64 whatever the width of N. Fails with INVALID_OPERATION when the
// sequence is empty.
func Average[T any, N Number](s *Sequence[T], sel func(T) N) (float64, error) {
	if sel == nil {
		return 0, errors.NullArgument("selector")
	}
	mean, err := Aggregate(s, runningMean{}, func(acc runningMean, v T) runningMean {
		return runningMean{sum: acc.sum + float64(sel(v)), count: acc.count + 1}
	})
	if err != nil {
		return 0, err
	}
	if mean.count == 0 {
		return 0, errors.InvalidOperation("cannot average an empty sequence")
	}
	return mean.sum / float64(mean.count), nil
}

// Sum returns the total of sel over the elements, accumulated in float64.
func Sum[T any, N Number](s *Sequence[T], sel func(T) N) (float64, error) {
	if sel == nil {
		return 0, errors.NullArgument("selector")
	}
	return Aggregate(s, 0.0, func(acc float64, v T) float64 {
		return acc + float64(sel(v))
	})
}

func fold[T, A any](c Cursor[T], seed A, acc func(A, T) A) A {
	result := seed
	for c.MoveNext() {
		result = acc(result, *c.CurrentRef())
	}
	return result
}
