// Package audio provides the audio timeline that drives Listen units.
//
// A Timeline wraps one audio asset, played by a Player, and the ordered
// word-level timestamps that align with the word indices of a sequence.
//
// # Players
//
// Player is the playback backend. It reports its position through a single
// time-update callback while playing. Two implementations are provided:
//
//   - ClockPlayer advances the position with the wall clock and produces no
//     sound. It is the silent fallback and the timing core of the others.
//   - CommandPlayer runs an external program (ffplay, mpv, afplay) for the
//     sound and keeps ClockPlayer for the position.
//
// # Futures
//
// Load and PlayUntil return a *Future that settles once: Load on "ready to
// play" or a load error, PlayUntil when the position reaches the end time or
// when playback is interrupted (ErrInterrupted) by Pause, Reset or a newer
// PlayUntil.
//
// # Subscriptions
//
// Subscribe registers a time-update observer and returns its unsubscribe
// func. Reset removes every observer so that nothing leaks across exercise
// reloads.
package audio
