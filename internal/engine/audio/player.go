package audio

import "context"

// Asset is a playable audio file on local storage.
type Asset struct {
	// Source is the URL or path the asset was requested from.
	Source string

	// Path is the local file the player reads.
	Path string

	// MIME is the sniffed media type, e.g. "audio/mpeg".
	MIME string

	// Size is the file size in bytes.
	Size int64
}

// Player plays one asset and reports its position.
//
// Implementations call the time-update callback from their own goroutine
// while playing, and must tolerate Pause and Seek being called from inside
// that callback.
type Player interface {
	// Open prepares asset for playback. The player is ready once Open returns.
	Open(ctx context.Context, asset Asset) error

	// Seek moves the position without changing the play state.
	Seek(seconds float64) error

	// Play starts or resumes playback.
	Play() error

	// Pause stops playback and keeps the position.
	Pause()

	// Position returns the current position in seconds.
	Position() float64

	// OnTimeUpdate sets the single receiver of position ticks.
	OnTimeUpdate(fn func(seconds float64))

	// Close releases the player.
	Close() error
}
