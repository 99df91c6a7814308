// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/shared"
)

// ErrBusStopped is returned by Publish once Stop has been called
var ErrBusStopped = errors.New("event bus stopped")

// InMemoryEventBus delivers events synchronously to subscribed handlers
type InMemoryEventBus struct {
	subs     *subscriptions
	logger   *zap.Logger
	running  atomic.Bool
	stopped  atomic.Bool
	inFlight sync.WaitGroup

	delivered atomic.Int64
	failed    atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		subs:   newSubscriptions(),
		logger: logger.Named("events"),
	}
}

// Publish hands every event to its handlers in order. A failing or panicking
// handler is logged and does not stop the others. Publishing stops early when
// ctx is done.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return ErrBusStopped
	}
	b.inFlight.Add(1)
	defer b.inFlight.Done()

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, handler := range b.subs.handlersFor(event.EventType()) {
			if err := b.deliver(ctx, handler, event); err != nil {
				b.failed.Add(1)
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("user_id", event.UserID().String()),
					zap.Error(err),
				)
				continue
			}
			b.delivered.Add(1)
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit event types the handler's
// own EventTypes are used, and an empty list subscribes to all events.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.subs.add(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.subs.remove(handler)
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(context.Context) error {
	b.stopped.Store(false)
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Int("handlers", b.subs.size()))
	return nil
}

// Stop rejects new publications and waits for in-flight ones, bounded by ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.stopped.Store(true)

	done := make(chan struct{})
	go func() {
		b.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped",
			zap.Int64("delivered", b.delivered.Load()),
			zap.Int64("failed", b.failed.Load()),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether Start was called and Stop was not
func (b *InMemoryEventBus) IsRunning() bool {
	return b.running.Load()
}

// Delivered counts successful handler invocations
func (b *InMemoryEventBus) Delivered() int64 {
	return b.delivered.Load()
}

// Failed counts handler invocations that returned an error or panicked
func (b *InMemoryEventBus) Failed() int64 {
	return b.failed.Load()
}

func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// FuncHandler adapts a function to shared.EventHandler
type FuncHandler struct {
	types []string
	fn    func(ctx context.Context, event shared.DomainEvent) error
}

// NewFuncHandler creates a handler for the given event types
func NewFuncHandler(fn func(ctx context.Context, event shared.DomainEvent) error, eventTypes ...string) *FuncHandler {
	return &FuncHandler{types: eventTypes, fn: fn}
}

// Handle calls the function
func (h *FuncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	return h.fn(ctx, event)
}

// EventTypes returns the subscribed event types
func (h *FuncHandler) EventTypes() []string {
	return h.types
}
