package exercise

import "errors"

var (
	// ErrUnknownFormat indicates a file extension other than .yaml, .yml or .toml.
	ErrUnknownFormat = errors.New("unknown exercise format")

	// ErrNoUnits indicates an exercise without any content.
	ErrNoUnits = errors.New("exercise has no content")
)
