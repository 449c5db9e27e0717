package cursor

import "fmt"

type state uint8

const (
	stateNone state = iota
	stateAt
	stateEnd
)

// Cursor identifies the current position of a traversal.
type Cursor struct {
	id    int
	state state
}

// None returns the unset cursor.
func None() Cursor {
	return Cursor{id: -1}
}

// At returns a cursor resting on unit id. Negative ids yield None.
func At(id int) Cursor {
	if id < 0 {
		return None()
	}
	return Cursor{id: id, state: stateAt}
}

// End returns the cursor past the last of n units.
func End(n int) Cursor {
	if n < 0 {
		n = 0
	}
	return Cursor{id: n, state: stateEnd}
}

// ID returns the cursor position: the unit id, the unit count when past the
// end, or -1 when unset.
func (c Cursor) ID() int {
	if c.state == stateNone {
		return -1
	}
	return c.id
}

// Unit returns the unit id the cursor rests on.
func (c Cursor) Unit() (int, bool) {
	if c.state != stateAt {
		return -1, false
	}
	return c.id, true
}

// IsSet reports whether the cursor has been placed.
func (c Cursor) IsSet() bool {
	return c.state != stateNone
}

// IsEnd reports whether the cursor is past the final unit.
func (c Cursor) IsEnd() bool {
	return c.state == stateEnd
}

// Equals returns true if both cursors are at the same position.
func (c Cursor) Equals(other Cursor) bool {
	return c.state == other.state && c.ID() == other.ID()
}

// Compare returns -1 if c is before other, 0 if equal, 1 if after.
// An unset cursor sorts before every placed cursor.
func (c Cursor) Compare(other Cursor) int {
	a, b := c.ID(), other.ID()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	switch c.state {
	case stateAt:
		return fmt.Sprintf("Cursor(%d)", c.id)
	case stateEnd:
		return fmt.Sprintf("Cursor(end=%d)", c.id)
	default:
		return "Cursor(none)"
	}
}
