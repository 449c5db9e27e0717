// Package tui presents an exercise in the terminal with tcell.
//
// The View lays units out in reading order, wrapping at the screen width,
// and styles each one by modality and commit state. Diagram units occupy
// whole lines. The last row is a status line with progress and accuracy.
//
// The UI runs the event loop. Keys are converted to input events and fed
// to the engine from one worker goroutine so that a Listen playback never
// blocks rendering. Left and Right move the cursor, a mouse click places
// it, Ctrl-P pauses playback, and Escape or Ctrl-C quits.
package tui
