package script

import "errors"

var (
	// ErrClosed indicates the host was closed.
	ErrClosed = errors.New("script host closed")

	// ErrNotFunction indicates a hook global that is not a function.
	ErrNotFunction = errors.New("hook is not a function")
)
