// Package events carries domain events between modules so producers never
// import their consumers. This is part of the platform layer and contains
// no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type; subscriptions key on it.
	EventName() string
	// OccurredAt is when the event happened.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp every event carries. Embed it and
// implement EventName on the concrete type.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes and subscribes domain events.
type Bus interface {
	// Publish delivers the event to every handler subscribed to its name.
	// Delivery is asynchronous; failures never reach the publisher.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event in subscription order and reports
	// handler failures to the caller.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for events whose EventName matches.
	Subscribe(eventName string, handler Handler)
}
