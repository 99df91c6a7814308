package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
)

// WornTrackingHandler keeps the wear history and the tracking rows in step
// with outfit.worn events: entries past the retention period are pruned and
// the latest tracking row of the worn recommendation is flagged as worn.
type WornTrackingHandler struct {
	records recommendation.Repository
	wear    recommendation.WearHistoryStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewWornTrackingHandler creates a new WornTrackingHandler
func NewWornTrackingHandler(records recommendation.Repository, wear recommendation.WearHistoryStore, log *zap.Logger) *WornTrackingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WornTrackingHandler{records: records, wear: wear, logger: log, now: time.Now}
}

// EventTypes returns the event types this handler is interested in
func (h *WornTrackingHandler) EventTypes() []string {
	return []string{recommendation.EventTypeOutfitWorn}
}

// Handle processes an outfit.worn event
func (h *WornTrackingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	worn, ok := event.(*recommendation.OutfitWornEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			recommendation.EventTypeOutfitWorn, event.EventType())
	}
	userID := event.UserID()
	log := logger.WithLogger(ctx, h.logger)

	if h.wear != nil {
		// Retention runs from the current time; a backdated or skewed worn_at
		// must not move the cutoff.
		cutoff := h.now().Add(-recommendation.WearHistoryRetention)
		if err := h.wear.Prune(ctx, userID.String(), cutoff); err != nil {
			log.Warn("Failed to prune wear history", zap.Error(err))
		}
	}

	record, err := h.records.FindLatestByRecommendationID(ctx, userID, worn.RecommendationID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if record.WasWorn {
		return nil
	}
	record.MarkWorn(worn.WornAt)
	if err := h.records.Save(ctx, record); err != nil {
		return err
	}
	log.Debug("Tracked recommendation marked as worn",
		zap.String("record_id", record.ID.String()),
		zap.String("recommendation_id", record.RecommendationID),
	)
	return nil
}

var _ shared.EventHandler = (*WornTrackingHandler)(nil)
