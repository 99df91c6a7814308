package event

import (
	"slices"
	"sync"

	"github.com/wardrobe/backend/internal/domain/shared"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

// subscriptions maps event types to handlers in subscription order
type subscriptions struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func newSubscriptions() *subscriptions {
	return &subscriptions{byType: make(map[string][]shared.EventHandler)}
}

// add subscribes handler to eventTypes, or to AllEvents when none are given.
// Subscribing the same handler twice to a type is a no-op.
func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{AllEvents}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, eventType := range eventTypes {
		if slices.Contains(s.byType[eventType], handler) {
			continue
		}
		s.byType[eventType] = append(s.byType[eventType], handler)
	}
}

// remove drops handler from every event type
func (s *subscriptions) remove(handler shared.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for eventType, handlers := range s.byType {
		handlers = slices.DeleteFunc(handlers, func(h shared.EventHandler) bool { return h == handler })
		if len(handlers) == 0 {
			delete(s.byType, eventType)
			continue
		}
		s.byType[eventType] = handlers
	}
}

// handlersFor returns the handlers of eventType followed by the catch-all
// handlers. A handler subscribed both ways is returned once.
func (s *subscriptions) handlersFor(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	specific := s.byType[eventType]
	all := s.byType[AllEvents]
	out := make([]shared.EventHandler, 0, len(specific)+len(all))
	out = append(out, specific...)
	for _, h := range all {
		if !slices.Contains(specific, h) {
			out = append(out, h)
		}
	}
	return out
}

// size counts distinct subscribed handlers
func (s *subscriptions) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var seen []shared.EventHandler
	for _, handlers := range s.byType {
		for _, h := range handlers {
			if !slices.Contains(seen, h) {
				seen = append(seen, h)
			}
		}
	}
	return len(seen)
}
