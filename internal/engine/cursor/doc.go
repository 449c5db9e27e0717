// Package cursor provides the traversal cursor value.
//
// A Cursor is in one of three states:
//
//   - none: no unit has been visited yet (only before first use)
//   - at: resting on a unit id
//   - end: past the final unit, the exercise is complete
//
// Cursor is an immutable value type and safe for concurrent use. The engine
// holds the only mutable copy.
package cursor
