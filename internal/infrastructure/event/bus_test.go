package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wardrobe/backend/internal/domain/shared"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, userID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Outfit", uuid.New(), userID),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	wornA := newTestEvent("outfit.worn", uuid.New())
	wornB := newTestEvent("outfit.worn", uuid.New())
	created := newTestEvent("outfit_look.created", uuid.New())

	tests := []struct {
		name      string
		subscribe []string
		events    []shared.DomainEvent
		want      int
	}{
		{"matching type", []string{"outfit.worn"}, []shared.DomainEvent{wornA}, 1},
		{"several events", []string{"outfit.worn"}, []shared.DomainEvent{wornA, wornB}, 2},
		{"other type", []string{"clothing_item.created"}, []shared.DomainEvent{wornA}, 0},
		{"all events", nil, []shared.DomainEvent{wornA, created}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewInMemoryEventBus(zap.NewNop())
			handler := newTestHandler(tt.subscribe...)
			bus.Subscribe(handler)

			require.NoError(t, bus.Publish(context.Background(), tt.events...))
			assert.Len(t, handler.getHandled(), tt.want)
			assert.Equal(t, int64(tt.want), bus.Delivered())
		})
	}
}

func TestInMemoryEventBus_Publish_HandlerError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("outfit.worn")
	failing.setError(errors.New("wear counter unavailable"))
	next := newTestHandler("outfit.worn")
	bus.Subscribe(failing)
	bus.Subscribe(next)

	err := bus.Publish(context.Background(), newTestEvent("outfit.worn", uuid.New()))

	require.NoError(t, err)
	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, next.getHandled(), 1)
	assert.Equal(t, int64(1), bus.Failed())
	assert.Equal(t, int64(1), bus.Delivered())
}

func TestInMemoryEventBus_Publish_CanceledContext(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("outfit.worn")
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(ctx, newTestEvent("outfit.worn", uuid.New()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("outfit.worn")
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("outfit.worn", uuid.New()))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("outfit.worn", uuid.New()))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("outfit.worn")
	bus.Subscribe(handler)

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("outfit.worn", uuid.New())))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())

	err := bus.Publish(context.Background(), newTestEvent("outfit.worn", uuid.New()))
	assert.ErrorIs(t, err, ErrBusStopped)
	assert.Len(t, handler.getHandled(), 1)
}

type panickingHandler struct{}

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panickingHandler) EventTypes() []string                             { return nil }

func TestInMemoryEventBus_Publish_HandlerPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	after := newTestHandler("outfit.worn")
	bus.Subscribe(&panickingHandler{}, "outfit.worn")
	bus.Subscribe(after)

	err := bus.Publish(context.Background(), newTestEvent("outfit.worn", uuid.New()))
	require.NoError(t, err)
	assert.Len(t, after.getHandled(), 1, "later handlers still run")
	assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())
	assert.Equal(t, 1, logs.FilterMessage("handler failed to process event").Len())
}

func TestFuncHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	var got []string
	h := NewFuncHandler(func(_ context.Context, e shared.DomainEvent) error {
		got = append(got, e.EventType())
		return nil
	}, "outfit.worn")
	bus.Subscribe(h)

	_ = bus.Publish(context.Background(),
		newTestEvent("outfit.worn", uuid.New()),
		newTestEvent("clothing_item.created", uuid.New()),
	)
	assert.Equal(t, []string{"outfit.worn"}, got)
}
