package seq

// Cursor provides stateful, pull-based access to a sequence of values.
//
// A cursor is Unstarted after construction or Reset, Positioned after a
// successful MoveNext, and Exhausted after MoveNext returns false. Current and
// CurrentRef are only valid while Positioned and panic otherwise.
type Cursor[T any] interface {
	// MoveNext advances to the next element. Returns false once the sequence is
	// exhausted, and keeps returning false until Reset.
	MoveNext() bool
	// Current returns a copy of the current element.
	Current() T
	// CurrentRef returns a pointer to the current element. The pointer is only
	// valid until the next MoveNext or Reset.
	CurrentRef() *T
	// Reset returns the cursor to the Unstarted state.
	Reset()
}

type cursorState uint8

const (
	stateUnstarted cursorState = iota
	statePositioned
	stateExhausted
)

func (s cursorState) String() string {
	switch s {
	case stateUnstarted:
		return "unstarted"
	case statePositioned:
		return "positioned"
	case stateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// mustBePositioned panics when an element is read outside the Positioned state.
// This is a programming error, not a query failure.
func mustBePositioned(state cursorState) {
	if state != statePositioned {
		panic("seq: element read from " + state.String() + " cursor")
	}
}
