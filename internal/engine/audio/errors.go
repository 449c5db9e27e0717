package audio

import "errors"

// Errors returned by timeline and player operations.
var (
	// ErrNotReady indicates no asset has finished loading.
	ErrNotReady = errors.New("audio not ready")

	// ErrInterrupted settles a pending PlayUntil that was paused or replaced.
	ErrInterrupted = errors.New("playback interrupted")

	// ErrNoTimestamp indicates a word index has no usable timestamp.
	ErrNoTimestamp = errors.New("no timestamp for word")

	// ErrNotAudio indicates the fetched asset is not an audio file.
	ErrNotAudio = errors.New("asset is not audio")

	// ErrInvalidTimestamps indicates timestamp data could not be parsed.
	ErrInvalidTimestamps = errors.New("invalid timestamp data")

	// ErrClosed indicates the timeline or player was closed.
	ErrClosed = errors.New("audio closed")
)
