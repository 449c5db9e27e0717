package engine

import "errors"

// Errors returned by engine operations. None of them leave the engine in an
// unusable state.
var (
	// ErrBusy indicates a key arrived while another was being processed.
	// The key is dropped.
	ErrBusy = errors.New("engine busy")

	// ErrThrottled indicates a key arrived within the throttle window of
	// the previous one and was coalesced.
	ErrThrottled = errors.New("key throttled")

	// ErrNoCursor indicates the sequence has no navigable unit.
	ErrNoCursor = errors.New("no cursor")

	// ErrInvalidUnit indicates a unit id outside the sequence.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrNotNavigable indicates an attempt to place the cursor on a
	// display-only unit.
	ErrNotNavigable = errors.New("unit is not navigable")

	// ErrClosed indicates the engine was closed.
	ErrClosed = errors.New("engine closed")
)
