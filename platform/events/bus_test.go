package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var order []string
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		order = append(order, "first")
		return nil
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		order = append(order, "second")
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"}); err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handler order = %v, want [first second]", order)
	}
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	errBoom := errors.New("boom")
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		return errBoom
	}))
	var secondRan bool
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		secondRan = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("PublishSync() error = %v, want wrapped %v", err, errBoom)
	}
	if !secondRan {
		t.Fatal("a failing handler must not stop later handlers")
	}
}

func TestPublishSyncRecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryBus(nil)

	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		panic("handler bug")
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	if err == nil {
		t.Fatal("PublishSync() must surface a panicking handler as an error")
	}
}

func TestPublishIsAsynchronous(t *testing.T) {
	bus := NewInMemoryBus(nil)

	done := make(chan struct{})
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler was never invoked")
	}
}

func TestPublishOutlivesCallerCancellation(t *testing.T) {
	bus := NewInMemoryBus(nil)

	callerGone := make(chan struct{})
	got := make(chan error, 1)
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		<-callerGone
		got <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{NewBaseEvent(), "thing.happened"})
	cancel()
	close(callerGone)

	select {
	case err := <-got:
		if err != nil {
			t.Fatalf("handler context error = %v, want nil after the publisher returned", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishSyncIgnoresUnrelatedEvents(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var calls int
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "other.happened"}); err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}
	if calls != 0 {
		t.Fatalf("handler calls = %d, want 0 for an unsubscribed event", calls)
	}
}
