// Package topic names bus events with dot-separated paths.
//
//	engine.cursor.moved
//	exercise.reloaded
//
// Subscription patterns may use "*" for exactly one segment and "**" for
// any number of segments, including none:
//
//	engine.*       matches engine.completed, not engine.cursor.moved
//	engine.**      matches every engine topic
//	**.failed      matches audio.failed and audio.load.failed
package topic
