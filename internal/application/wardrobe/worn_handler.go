package wardrobe

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// OutfitWornHandler bumps item and look wear counters when an outfit is
// marked as worn
type OutfitWornHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewOutfitWornHandler creates a handler for outfit.worn events
func NewOutfitWornHandler(service *Service, logger *zap.Logger) *OutfitWornHandler {
	return &OutfitWornHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OutfitWornHandler) EventTypes() []string {
	return []string{recommendation.EventTypeOutfitWorn}
}

// Handle processes an OutfitWornEvent. Ids that are not item UUIDs are ignored.
func (h *OutfitWornHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	worn, ok := event.(*recommendation.OutfitWornEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			recommendation.EventTypeOutfitWorn, event.EventType())
	}

	ids := recommendation.ParseItemUUIDs(worn.ItemIDs)
	if len(ids) == 0 {
		h.logger.Debug("Worn outfit has no stored item",
			zap.String("recommendation_id", worn.RecommendationID))
		return nil
	}
	return h.service.RecordWear(ctx, event.UserID(), ids, worn.WornAt)
}

var _ shared.EventHandler = (*OutfitWornHandler)(nil)
