package seq

// --- Filter ---

// filterCursor skips upstream elements that do not satisfy pred.
type filterCursor[T any] struct {
	source Cursor[T]
	pred   func(T) bool
}

func newFilterCursor[T any](source Cursor[T], pred func(T) bool) *filterCursor[T] {
	return &filterCursor[T]{source: source, pred: pred}
}

// where narrows the filter: an element must satisfy both the existing predicate and pred.
func (c *filterCursor[T]) where(pred func(T) bool) *filterCursor[T] {
	prev := c.pred
	c.pred = func(v T) bool { return prev(v) && pred(v) }
	return c
}

func (c *filterCursor[T]) MoveNext() bool {
	for c.source.MoveNext() {
		if c.pred(*c.source.CurrentRef()) {
			return true
		}
	}
	return false
}

func (c *filterCursor[T]) Current() T     { return c.source.Current() }
func (c *filterCursor[T]) CurrentRef() *T { return c.source.CurrentRef() }
func (c *filterCursor[T]) Reset()         { c.source.Reset() }

// --- Map ---

// mapCursor transforms upstream elements. Current recomputes on every call;
// CurrentRef caches one value until the next MoveNext.
type mapCursor[I, O any] struct {
	source Cursor[I]
	fn     func(I) O
	cached *O
}

func newMapCursor[I, O any](source Cursor[I], fn func(I) O) *mapCursor[I, O] {
	return &mapCursor[I, O]{source: source, fn: fn}
}

func (c *mapCursor[I, O]) MoveNext() bool {
	c.cached = nil
	return c.source.MoveNext()
}

func (c *mapCursor[I, O]) Current() O {
	return c.fn(*c.source.CurrentRef())
}

func (c *mapCursor[I, O]) CurrentRef() *O {
	if c.cached == nil {
		v := c.fn(*c.source.CurrentRef())
		c.cached = &v
	}
	return c.cached
}

func (c *mapCursor[I, O]) Reset() {
	c.cached = nil
	c.source.Reset()
}

// --- Combine ---

// combineCursor yields every element of first, then every element of second.
type combineCursor[T any] struct {
	first  Cursor[T]
	second Cursor[T]
	active Cursor[T]
}

func newCombineCursor[T any](first, second Cursor[T]) *combineCursor[T] {
	return &combineCursor[T]{first: first, second: second}
}

func (c *combineCursor[T]) MoveNext() bool {
	if c.first.MoveNext() {
		c.active = c.first
		return true
	}
	if c.second.MoveNext() {
		c.active = c.second
		return true
	}
	c.active = nil
	return false
}

func (c *combineCursor[T]) Current() T {
	if c.active == nil {
		panic("seq: element read from inactive combined cursor")
	}
	return c.active.Current()
}

func (c *combineCursor[T]) CurrentRef() *T {
	if c.active == nil {
		panic("seq: element read from inactive combined cursor")
	}
	return c.active.CurrentRef()
}

func (c *combineCursor[T]) Reset() {
	c.first.Reset()
	c.second.Reset()
	c.active = nil
}

// --- Distinct ---

// distinctCursor keeps the first element seen for each key. The set of seen
// keys belongs to this cursor and is cleared by Reset, so every traversal
// starts with no keys recorded.
type distinctCursor[T any, K comparable] struct {
	source Cursor[T]
	key    func(T) K
	seen   map[K]struct{}
}

func newDistinctCursor[T any, K comparable](source Cursor[T], key func(T) K) *distinctCursor[T, K] {
	return &distinctCursor[T, K]{source: source, key: key, seen: make(map[K]struct{})}
}

func (c *distinctCursor[T, K]) MoveNext() bool {
	for c.source.MoveNext() {
		k := c.key(*c.source.CurrentRef())
		if _, ok := c.seen[k]; ok {
			continue
		}
		c.seen[k] = struct{}{}
		return true
	}
	return false
}

func (c *distinctCursor[T, K]) Current() T     { return c.source.Current() }
func (c *distinctCursor[T, K]) CurrentRef() *T { return c.source.CurrentRef() }

func (c *distinctCursor[T, K]) Reset() {
	clear(c.seen)
	c.source.Reset()
}

// --- TakeWhile ---

// takeWhileCursor passes elements through until pred first fails, then reports
// exhaustion without pulling further from upstream.
type takeWhileCursor[T any] struct {
	source  Cursor[T]
	pred    func(T) bool
	stopped bool
}

func newTakeWhileCursor[T any](source Cursor[T], pred func(T) bool) *takeWhileCursor[T] {
	return &takeWhileCursor[T]{source: source, pred: pred}
}

func (c *takeWhileCursor[T]) MoveNext() bool {
	if c.stopped {
		return false
	}
	if !c.source.MoveNext() || !c.pred(*c.source.CurrentRef()) {
		c.stopped = true
		return false
	}
	return true
}

func (c *takeWhileCursor[T]) Current() T {
	if c.stopped {
		mustBePositioned(stateExhausted)
	}
	return c.source.Current()
}

func (c *takeWhileCursor[T]) CurrentRef() *T {
	if c.stopped {
		mustBePositioned(stateExhausted)
	}
	return c.source.CurrentRef()
}

func (c *takeWhileCursor[T]) Reset() {
	c.stopped = false
	c.source.Reset()
}
