// Package engine implements the traversal engine: a single cursor walking
// an arena of content units, where each unit demands one input modality.
//
// # Overview
//
// The engine is built on several sub-packages:
//
//   - unit: the immutable unit arena and per-unit commit marks
//   - cursor: the cursor value (no cursor, a unit, or end of sequence)
//   - audio: the timeline that plays word-timestamped audio for Listen units
//
// Key events are dispatched to exactly one handler chosen by the modality of
// the unit under the cursor:
//
//   - Type: the key is compared with the unit content, the unit is committed
//     with the result and the cursor always advances. Tab completes the
//     current word.
//   - Write: any key commits the unit and advances.
//   - Listen: the remaining contiguous Listen span is played and the cursor
//     follows the audio word by word.
//   - Diagram: display only; the cursor never rests on these units.
//
// Backspace retreats and clears the commit state of the unit returned to.
// On Listen units it retreats a whole spoken word.
//
// # Thread Safety
//
// All Engine methods are safe for concurrent use. Key handling is not
// reentrant: while a key is being processed, including the wait for Listen
// playback, further keys are rejected with ErrBusy. Audio ticks are queued
// onto a single-slot channel and applied by the goroutine running HandleKey.
//
// Observers are called after every mutation, outside the engine lock, from
// the goroutine that performed the mutation.
//
// # Basic Usage
//
//	seq, _ := unit.Build([]unit.Section{
//		{Modality: unit.Type, Tokens: []string{"H", "i"}},
//	})
//	e := engine.New(seq)
//	_ = e.HandleKey(ctx, key.NewRuneEvent('H', key.ModNone))
//	_ = e.HandleKey(ctx, key.NewRuneEvent('i', key.ModNone))
//	e.Complete() // true
package engine
