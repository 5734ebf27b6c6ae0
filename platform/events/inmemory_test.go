package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"clientbase/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublish_ReachesAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var mu sync.Mutex
	seen := 0
	handler := HandlerFunc(func(_ context.Context, _ Event) error {
		mu.Lock()
		seen++
		mu.Unlock()
		return nil
	})

	bus.Subscribe("thing.happened", handler)
	bus.Subscribe("thing.happened", handler)
	bus.Subscribe("other.event", handler)

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "thing.happened"})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if seen != 2 {
		t.Fatalf("expected 2 handler invocations, got %d", seen)
	}
}

func TestPublish_NoSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "nobody.listens"})
	bus.Wait()
}

func TestPublish_HandlerErrorDoesNotAffectOthers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var mu sync.Mutex
	ran := false
	bus.Subscribe("thing.happened", HandlerFunc(func(_ context.Context, _ Event) error {
		return errors.New("boom")
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(_ context.Context, _ Event) error {
		mu.Lock()
		ran = true
		mu.Unlock()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "thing.happened"})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !ran {
		t.Fatal("second handler must run despite first handler's error")
	}
}

func TestPublishSync_ReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	wantErr := errors.New("boom")
	order := 0
	bus.Subscribe("thing.happened", HandlerFunc(func(_ context.Context, _ Event) error {
		order++
		return wantErr
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(_ context.Context, _ Event) error {
		order++
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "thing.happened"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected first handler error, got %v", err)
	}
	if order != 1 {
		t.Fatalf("expected synchronous stop after first error, got %d invocations", order)
	}
}
