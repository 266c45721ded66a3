package seq

import "github.com/kbukum/seqkit/errors"

// All reports whether every element satisfies pred. It stops at the first
// element that does not. An empty sequence yields true.
func (s *Sequence[T]) All(pred func(T) bool) (bool, error) {
	if pred == nil {
		return false, errors.NullArgument("predicate")
	}
	c, err := s.Enumerator()
	if err != nil {
		return false, err
	}
	for c.MoveNext() {
		if !pred(*c.CurrentRef()) {
			return false, nil
		}
	}
	return true, nil
}

// Any reports whether the sequence has at least one element.
func (s *Sequence[T]) Any() (bool, error) {
	c, err := s.Enumerator()
	if err != nil {
		return false, err
	}
	return c.MoveNext(), nil
}

// AnyMatch reports whether some element satisfies pred. It stops at the first match.
func (s *Sequence[T]) AnyMatch(pred func(T) bool) (bool, error) {
	if pred == nil {
		return false, errors.NullArgument("predicate")
	}
	_, found, err := s.firstWhere(pred)
	return found, err
}

// Contains reports whether the sequence has an element equal to value.
func Contains[T comparable](s *Sequence[T], value T) (bool, error) {
	return s.AnyMatch(func(v T) bool { return v == value })
}

// ElementAt returns the element at the zero-based index. Fails with
// OUT_OF_RANGE when the sequence is shorter than index+1.
func (s *Sequence[T]) ElementAt(index int) (T, error) {
	v, found, err := s.elementAt(index)
	if err != nil {
		return v, err
	}
	if !found {
		return v, errors.OutOfRange(index, -1)
	}
	return v, nil
}

// ElementAtOrDefault is ElementAt with def substituted for an out-of-range index.
// Other errors are returned unchanged.
func (s *Sequence[T]) ElementAtOrDefault(index int, def T) (T, error) {
	v, found, err := s.elementAt(index)
	if err != nil {
		return def, err
	}
	if !found {
		return def, nil
	}
	return v, nil
}

// First returns the first element. Fails with INVALID_OPERATION when the
// sequence is empty.
func (s *Sequence[T]) First() (T, error) {
	v, found, err := s.elementAt(0)
	if err != nil {
		return v, err
	}
	if !found {
		return v, errors.InvalidOperation("cannot take first from an empty sequence")
	}
	return v, nil
}

// FirstWhere returns the first element that satisfies pred. Fails with
// INVALID_OPERATION when no element does.
func (s *Sequence[T]) FirstWhere(pred func(T) bool) (T, error) {
	if pred == nil {
		var zero T
		return zero, errors.NullArgument("predicate")
	}
	v, found, err := s.firstWhere(pred)
	if err != nil {
		return v, err
	}
	if !found {
		return v, errors.InvalidOperation("no element satisfies the predicate")
	}
	return v, nil
}

// FirstOrDefault returns the first element, or def when the sequence is empty.
func (s *Sequence[T]) FirstOrDefault(def T) (T, error) {
	return s.ElementAtOrDefault(0, def)
}

// FirstWhereOrDefault returns the first element that satisfies pred, or def
// when no element does.
func (s *Sequence[T]) FirstWhereOrDefault(pred func(T) bool, def T) (T, error) {
	if pred == nil {
		return def, errors.NullArgument("predicate")
	}
	v, found, err := s.firstWhere(pred)
	if err != nil || !found {
		return def, err
	}
	return v, nil
}

// elementAt walks index+1 elements. found is false when the sequence is too short.
func (s *Sequence[T]) elementAt(index int) (v T, found bool, err error) {
	c, err := s.Enumerator()
	if err != nil {
		return v, false, err
	}
	if index < 0 {
		return v, false, nil
	}
	for i := 0; i <= index; i++ {
		if !c.MoveNext() {
			return v, false, nil
		}
	}
	return c.Current(), true, nil
}

func (s *Sequence[T]) firstWhere(pred func(T) bool) (v T, found bool, err error) {
	c, err := s.Enumerator()
	if err != nil {
		return v, false, err
	}
	for c.MoveNext() {
		if ref := c.CurrentRef(); pred(*ref) {
			return *ref, true, nil
		}
	}
	return v, false, nil
}
