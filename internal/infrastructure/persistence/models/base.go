package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// AggregateModel extends BaseModel with the optimistic locking version.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// OwnedAggregateModel adds the owning user to AggregateModel.
type OwnedAggregateModel struct {
	AggregateModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainOwned populates the model from a user-owned aggregate root
func (m *OwnedAggregateModel) FromDomainOwned(o shared.OwnedAggregateRoot) {
	m.ID = o.ID
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
	m.Version = o.Version
	m.UserID = o.UserID
}

// PopulateOwned copies the persisted fields back into a domain aggregate root
func (m *OwnedAggregateModel) PopulateOwned(o *shared.OwnedAggregateRoot) {
	o.BaseEntity = m.BaseModel.ToDomain()
	o.Version = m.Version
	o.UserID = m.UserID
}
