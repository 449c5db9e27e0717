// Package unit provides the content units an exercise is made of.
//
// A Sequence is an arena: a dense slice of Unit values addressed by their
// index. Prev and Next links are indices assigned once by Build and never
// rewritten, so the chain cannot form ownership cycles and a unit id stays
// valid for the lifetime of the sequence.
//
// Each unit carries a Modality:
//
//   - Type: the key pressed must match the unit content
//   - Write: free-form handwriting, any key commits
//   - Listen: committed by audio playback reaching the unit's word
//   - Diagram: rendered only, never addressable by the cursor
//
// Listen units that start a spoken word receive a word index, a dense
// zero-based counter over the whole sequence that maps the word onto the
// caller-supplied audio timestamps.
//
// Mutable per-unit state (commit, correctness, cursor decoration) lives in a
// parallel Mark slice. Sequence is not safe for concurrent use; the engine
// serializes access.
package unit
