package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to one aggregate of one user
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	UserID() uuid.UUID
}

// AggregateRef names the aggregate an event is about
type AggregateRef struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// BaseDomainEvent is embedded by concrete events to satisfy DomainEvent
type BaseDomainEvent struct {
	ID        uuid.UUID    `json:"event_id"`
	Name      string       `json:"event_type"`
	At        time.Time    `json:"occurred_at"`
	Aggregate AggregateRef `json:"aggregate"`
	Owner     uuid.UUID    `json:"user_id"`
}

// NewBaseDomainEvent stamps a new event with an id and the current time
func NewBaseDomainEvent(eventType, aggregateKind string, aggregateID, userID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Name:      eventType,
		At:        time.Now().UTC(),
		Aggregate: AggregateRef{Kind: aggregateKind, ID: aggregateID},
		Owner:     userID,
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseDomainEvent) EventType() string      { return e.Name }
func (e BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate.ID }
func (e BaseDomainEvent) UserID() uuid.UUID      { return e.Owner }
