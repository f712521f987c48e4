package events

import (
	"context"
	"errors"
	"sync"

	"salesdesk_backend/platform/logger"
)

// InMemoryBus is a simple in-process Bus implementation. Handler panics are
// recovered and logged so a misbehaving subscriber cannot take down the
// publishing request.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the named event type.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish delivers the event to all handlers asynchronously. Handler errors
// are logged, never propagated: publishing is fire-and-forget. Handlers run
// on a context detached from the caller's cancellation, so work they start
// survives the request that published the event.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	detached := context.WithoutCancel(ctx)
	for _, h := range b.handlersFor(event.EventName()) {
		handler := h
		go func() {
			b.invoke(detached, event, handler)
		}()
	}
}

// PublishSync delivers the event to all handlers in order and returns the
// combined error, if any handler failed.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, handler := range b.handlersFor(event.EventName()) {
		if err := b.invoke(ctx, event, handler); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	out := make([]Handler, len(registered))
	copy(out, registered)
	return out
}

func (b *InMemoryBus) invoke(ctx context.Context, event Event, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("event handler panicked")
			if b.log != nil {
				b.log.Error("event handler panic", "event", event.EventName(), "panic", r)
			}
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		if b.log != nil {
			b.log.Error("event handler failed", "event", event.EventName(), "error", err)
		}
		return err
	}
	return nil
}
