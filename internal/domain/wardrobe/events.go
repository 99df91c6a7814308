package wardrobe

import (
	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeClothingItem = "ClothingItem"
	AggregateTypeOutfitLook   = "OutfitLook"
)

// Event type constants
const (
	EventTypeClothingItemCreated = "clothing_item.created"
	EventTypeClothingItemDeleted = "clothing_item.deleted"
	EventTypeOutfitLookCreated   = "outfit_look.created"
)

// ClothingItemCreatedEvent is published when an item is added to a wardrobe
type ClothingItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID    uuid.UUID `json:"item_id"`
	PieceType string    `json:"piece_type"`
	Category  Category  `json:"category"`
}

// NewClothingItemCreatedEvent creates a new ClothingItemCreatedEvent
func NewClothingItemCreatedEvent(item *ClothingItem) *ClothingItemCreatedEvent {
	return &ClothingItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeClothingItemCreated,
			AggregateTypeClothingItem,
			item.ID,
			item.UserID,
		),
		ItemID:    item.ID,
		PieceType: item.PieceType,
		Category:  item.Category(),
	}
}

// ClothingItemDeletedEvent is published when an item is soft-deleted
type ClothingItemDeletedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
}

// NewClothingItemDeletedEvent creates a new ClothingItemDeletedEvent
func NewClothingItemDeletedEvent(item *ClothingItem) *ClothingItemDeletedEvent {
	return &ClothingItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeClothingItemDeleted,
			AggregateTypeClothingItem,
			item.ID,
			item.UserID,
		),
		ItemID: item.ID,
	}
}

// OutfitLookCreatedEvent is published when a complete look is saved
type OutfitLookCreatedEvent struct {
	shared.BaseDomainEvent
	LookID uuid.UUID `json:"look_id"`
	Name   string    `json:"name"`
}

// NewOutfitLookCreatedEvent creates a new OutfitLookCreatedEvent
func NewOutfitLookCreatedEvent(look *OutfitLook) *OutfitLookCreatedEvent {
	return &OutfitLookCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeOutfitLookCreated,
			AggregateTypeOutfitLook,
			look.ID,
			look.UserID,
		),
		LookID: look.ID,
		Name:   look.Name,
	}
}
