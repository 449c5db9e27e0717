// Package throttle provides time-based event coalescing.
//
// Gate drops events that arrive within a short window of the last accepted
// one. The engine uses it to absorb key-repeat bursts that reach it faster
// than the presentation layer can apply highlight decorations.
//
// Debouncer delivers the latest of a burst of values once the burst has been
// quiet for a delay. Progress persistence uses it to save the cursor offset
// without writing on every keystroke.
package throttle
