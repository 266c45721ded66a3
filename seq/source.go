package seq

import "container/list"

// --- Buffer cursor ---

// sliceCursor walks a private copy of a slice.
type sliceCursor[T any] struct {
	items []T
	index int
	state cursorState
}

// newSliceCursor walks items without copying. Sequences copy their input once
// at construction and share that copy between traversals.
func newSliceCursor[T any](items []T) *sliceCursor[T] {
	return &sliceCursor[T]{items: items}
}

func (c *sliceCursor[T]) MoveNext() bool {
	switch c.state {
	case stateUnstarted:
		if len(c.items) == 0 {
			return false
		}
		c.index = 0
		c.state = statePositioned
		return true
	case statePositioned:
		if c.index+1 < len(c.items) {
			c.index++
			return true
		}
		c.state = stateExhausted
		return false
	default:
		return false
	}
}

func (c *sliceCursor[T]) Current() T {
	mustBePositioned(c.state)
	return c.items[c.index]
}

func (c *sliceCursor[T]) CurrentRef() *T {
	mustBePositioned(c.state)
	return &c.items[c.index]
}

func (c *sliceCursor[T]) Reset() {
	c.index = 0
	c.state = stateUnstarted
}

// --- Container cursor ---

// listCursor walks a private copy of a doubly linked list whose elements hold *T.
type listCursor[T any] struct {
	items   *list.List
	current *list.Element
	isReset bool
}

func newListCursor[T any](items *list.List) *listCursor[T] {
	return &listCursor[T]{items: items, isReset: true}
}

func (c *listCursor[T]) canMoveNext() bool {
	return c.items.Front() != nil && (c.isReset || c.current != nil)
}

func (c *listCursor[T]) MoveNext() bool {
	if !c.canMoveNext() {
		return false
	}
	if c.isReset {
		c.current = c.items.Front()
		c.isReset = false
		return true
	}
	c.current = c.current.Next()
	return c.current != nil
}

func (c *listCursor[T]) state() cursorState {
	switch {
	case c.isReset:
		return stateUnstarted
	case c.current == nil:
		return stateExhausted
	default:
		return statePositioned
	}
}

func (c *listCursor[T]) Current() T {
	return *c.CurrentRef()
}

func (c *listCursor[T]) CurrentRef() *T {
	mustBePositioned(c.state())
	return c.current.Value.(*T)
}

func (c *listCursor[T]) Reset() {
	c.isReset = true
	c.current = nil
}

// pushCopy appends a private copy of v to l.
func pushCopy[T any](l *list.List, v T) {
	owned := new(T)
	*owned = v
	l.PushBack(owned)
}

// --- Generator cursor ---

// generatorCursor produces values procedurally from a seed. It never advances
// past a value for which done reports true, so it may be unbounded.
type generatorCursor[T any] struct {
	seed    T
	current T
	next    func(T) T
	done    func(T) bool
	state   cursorState
}

func newGeneratorCursor[T any](seed T, next func(T) T, done func(T) bool) *generatorCursor[T] {
	return &generatorCursor[T]{seed: seed, current: seed, next: next, done: done}
}

func (c *generatorCursor[T]) MoveNext() bool {
	if c.done(c.current) {
		c.state = stateExhausted
		return false
	}
	c.current = c.next(c.current)
	c.state = statePositioned
	return true
}

func (c *generatorCursor[T]) Current() T {
	mustBePositioned(c.state)
	return c.current
}

func (c *generatorCursor[T]) CurrentRef() *T {
	mustBePositioned(c.state)
	return &c.current
}

func (c *generatorCursor[T]) Reset() {
	c.current = c.seed
	c.state = stateUnstarted
}
