package seq

import "iter"

// Sequence is a lazy, re-runnable query over an ordered sequence of values.
// No work happens until a terminal operation pulls values.
type Sequence[T any] struct {
	open func() Cursor[T]
	// filter is set when the last stage is a plain predicate filter, so Where
	// can narrow it instead of stacking another cursor.
	filter *filterStage[T]
	err    error
}

type filterStage[T any] struct {
	upstream *Sequence[T]
	pred     func(T) bool
}

func newSequence[T any](open func() Cursor[T]) *Sequence[T] {
	return &Sequence[T]{open: open}
}

// failed returns a sequence whose terminal operations all report err.
func failed[T any](err error) *Sequence[T] {
	return &Sequence[T]{err: err}
}

// Err returns the error recorded while the sequence was built, if any.
func (s *Sequence[T]) Err() error {
	return s.err
}

// Enumerator returns a new cursor over the sequence, positioned before the
// first element. The cursor is owned by the caller.
func (s *Sequence[T]) Enumerator() (Cursor[T], error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.open(), nil
}

// Values returns an iterator for use with range. It yields nothing when the
// sequence carries an error; check Err.
//
//	for v := range s.Values() {
//	    ...
//	}
func (s *Sequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.err != nil {
			return
		}
		c := s.open()
		for c.MoveNext() {
			if !yield(c.Current()) {
				return
			}
		}
	}
}

// ToSlice runs the query and returns all values.
func (s *Sequence[T]) ToSlice() ([]T, error) {
	c, err := s.Enumerator()
	if err != nil {
		return nil, err
	}
	result := make([]T, 0)
	for c.MoveNext() {
		result = append(result, c.Current())
	}
	return result, nil
}

// derive builds a sequence whose chain wraps this sequence's chain.
// Construction errors propagate to the derived sequence.
func derive[T, U any](s *Sequence[T], wrap func(Cursor[T]) Cursor[U]) *Sequence[U] {
	if s.err != nil {
		return failed[U](s.err)
	}
	return newSequence(func() Cursor[U] {
		return wrap(s.open())
	})
}
