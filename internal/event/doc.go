// Package event provides the synchronous message bus that carries engine
// changes and session lifecycle events to interested components (the
// terminal view, Lua hooks, progress persistence).
//
// # Topics
//
// Events are named with dot-separated topics:
//
//	engine.cursor.moved      - the cursor moved
//	engine.unit.committed    - a unit was committed
//	engine.unit.uncommitted  - a retreat cleared a commit
//	engine.completed         - the cursor reached the end
//	exercise.loaded          - an exercise was loaded or reloaded
//	audio.ready              - the audio asset is playable
//	audio.failed             - the audio asset could not be loaded
//
// Subscriptions may use the wildcards described in package topic.
//
// # Delivery
//
// Publish runs matching handlers in subscription order in the publisher's
// goroutine. A handler error or panic is recorded and reported to the
// publisher but never stops delivery to the remaining handlers.
package event
