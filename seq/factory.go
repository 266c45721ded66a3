package seq

import (
	"cmp"
	"container/list"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/kbukum/seqkit/errors"
)

// Pair is a key-value element produced by FromMap.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// FromSlice creates a sequence over a copy of items. Later changes to items are
// not observed by the sequence.
func FromSlice[T any](items []T) *Sequence[T] {
	owned := slices.Clone(items)
	return newSequence(func() Cursor[T] {
		return newSliceCursor(owned)
	})
}

// Of creates a sequence of the given values.
func Of[T any](values ...T) *Sequence[T] {
	return FromSlice(values)
}

// Empty creates a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return fromList[T](list.New())
}

// FromList creates a sequence over a copy of l. Every element value must be a T.
func FromList[T any](l *list.List) *Sequence[T] {
	if l == nil {
		return failed[T](errors.NullArgument("list"))
	}
	owned := list.New()
	i := 0
	for e := l.Front(); e != nil; e = e.Next() {
		v, ok := e.Value.(T)
		if !ok {
			return failed[T](errors.InvalidOperation(
				fmt.Sprintf("list element %d has type %T", i, e.Value)))
		}
		pushCopy(owned, v)
		i++
	}
	return fromList[T](owned)
}

// FromSeq creates a sequence over a snapshot of the values yielded by it.
// The iterator is drained once, when FromSeq is called.
func FromSeq[T any](it iter.Seq[T]) *Sequence[T] {
	if it == nil {
		return failed[T](errors.NullArgument("iterator"))
	}
	owned := list.New()
	for v := range it {
		pushCopy(owned, v)
	}
	return fromList[T](owned)
}

// FromMap creates a sequence over a snapshot of m, ordered by key.
func FromMap[K cmp.Ordered, V any](m map[K]V) *Sequence[Pair[K, V]] {
	owned := list.New()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		pushCopy(owned, Pair[K, V]{Key: k, Value: m[k]})
	}
	return fromList[Pair[K, V]](owned)
}

func fromList[T any](owned *list.List) *Sequence[T] {
	return newSequence(func() Cursor[T] {
		return newListCursor[T](owned)
	})
}

// Generate creates a sequence that starts from seed and repeatedly applies next.
// Before each step done is checked against the latest value; the sequence ends
// once it reports true. The seed itself is not produced.
//
//	// 2, 4, 8, 16
//	powers := seq.Generate(1, func(n int) int { return n * 2 }, func(n int) bool { return n >= 16 })
func Generate[T any](seed T, next func(T) T, done func(T) bool) *Sequence[T] {
	if next == nil {
		return failed[T](errors.NullArgument("next"))
	}
	if done == nil {
		return failed[T](errors.NullArgument("done"))
	}
	return newSequence(func() Cursor[T] {
		return newGeneratorCursor(seed, next, done)
	})
}

// Range creates a sequence of count consecutive integers starting at start.
func Range(start, count int) *Sequence[int] {
	if count < 0 {
		return failed[int](errors.OutOfRange(count, -1).WithDetail("argument", "count"))
	}
	// Offsets from start are exact under wrapping arithmetic, so ranges
	// ending at math.MaxInt do not overflow.
	return Generate(start-1,
		func(n int) int { return n + 1 },
		func(n int) bool { return n+1-start >= count },
	)
}
