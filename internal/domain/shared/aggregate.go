package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the identity and timestamps of a persisted record
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// OwnedAggregateRoot is an aggregate belonging to one user of the identity
// provider (uuid.Nil for anonymous data). Version is the optimistic lock
// checked by repositories on update, and events raised by the aggregate
// wait in pending until the service that saved it pulls them.
type OwnedAggregateRoot struct {
	BaseEntity
	UserID  uuid.UUID
	Version int

	pending []DomainEvent
}

func NewOwnedAggregateRoot(userID uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{BaseEntity: NewBaseEntity(), UserID: userID, Version: 1}
}

// IsOwnedBy is false for anonymous aggregates whatever userID is
func (a *OwnedAggregateRoot) IsOwnedBy(userID uuid.UUID) bool {
	return a.UserID != uuid.Nil && a.UserID == userID
}

// Modified bumps UpdatedAt and the version after a state change
func (a *OwnedAggregateRoot) Modified() {
	a.Touch()
	a.Version++
}

// Record queues an event for publication
func (a *OwnedAggregateRoot) Record(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns the queued events without clearing them
func (a *OwnedAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// PullEvents returns the queued events and clears the queue
func (a *OwnedAggregateRoot) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
