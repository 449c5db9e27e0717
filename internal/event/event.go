package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/sensetype/internal/event/topic"
)

// Event is a typed event. Events are immutable once created.
type Event[T any] struct {
	Type     topic.Topic
	Payload  T
	Metadata Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	// ID is unique per event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source names the publishing component.
	Source string
}

// NewEvent creates an event with fresh metadata.
func NewEvent[T any](t topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// Envelope is the type-erased form handlers receive.
type Envelope struct {
	Topic    topic.Topic
	Payload  any
	Metadata Metadata
}

// Envelope erases the payload type.
func (e Event[T]) Envelope() Envelope {
	return Envelope{Topic: e.Type, Payload: e.Payload, Metadata: e.Metadata}
}

// PayloadAs extracts a typed payload from an envelope.
func PayloadAs[T any](env Envelope) (T, bool) {
	v, ok := env.Payload.(T)
	return v, ok
}
