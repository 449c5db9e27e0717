package watch

import "errors"

var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("watcher closed")

	// ErrPathNotExist is returned when adding a file that does not exist.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrIsDir is returned when adding a directory.
	ErrIsDir = errors.New("path is a directory")

	// ErrNotWatching is returned when removing an untracked file.
	ErrNotWatching = errors.New("path not being watched")
)
