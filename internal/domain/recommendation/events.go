package recommendation

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// AggregateTypeOutfit is the aggregate type used for wear events
const AggregateTypeOutfit = "Outfit"

// Event type constants
const (
	EventTypeOutfitWorn            = "outfit.worn"
	EventTypeRecommendationsServed = "recommendation.served"
)

// OutfitWornEvent is published when a user marks an item or a combination as worn
type OutfitWornEvent struct {
	shared.BaseDomainEvent
	RecommendationID string    `json:"recommendation_id"`
	ItemIDs          []string  `json:"item_ids"`
	WornAt           time.Time `json:"worn_at"`
}

// NewOutfitWornEvent creates a new OutfitWornEvent. The aggregate id is the
// single item id, or uuid.Nil for a combination.
func NewOutfitWornEvent(userID uuid.UUID, id string, wornAt time.Time) *OutfitWornEvent {
	aggID, _ := uuid.Parse(id)
	return &OutfitWornEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeOutfitWorn,
			AggregateTypeOutfit,
			aggID,
			userID,
		),
		RecommendationID: id,
		ItemIDs:          MemberIDs(id),
		WornAt:           wornAt,
	}
}

// RecommendationsServedEvent is published after a daily recommendation run
type RecommendationsServedEvent struct {
	shared.BaseDomainEvent
	Count    int  `json:"count"`
	Fallback bool `json:"fallback"`
}

// NewRecommendationsServedEvent creates a new RecommendationsServedEvent
func NewRecommendationsServedEvent(userID uuid.UUID, count int, fallback bool) *RecommendationsServedEvent {
	return &RecommendationsServedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeRecommendationsServed,
			AggregateTypeOutfit,
			uuid.Nil,
			userID,
		),
		Count:    count,
		Fallback: fallback,
	}
}
