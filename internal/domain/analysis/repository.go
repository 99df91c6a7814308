package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// Repository defines persistence operations for analyses and their pieces
type Repository interface {
	// FindByID finds an analysis with its pieces ordered by position
	FindByID(ctx context.Context, id uuid.UUID) (*OutfitAnalysis, error)

	// FindByUser lists the analyses of a user, newest first, without pieces
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OutfitAnalysis, int64, error)

	// Save creates or updates an analysis and replaces its pieces
	Save(ctx context.Context, analysis *OutfitAnalysis) error

	// Delete removes an analysis and its pieces
	Delete(ctx context.Context, id uuid.UUID) error

	// FailStale marks analyses left pending or processing since before
	// cutoff as failed and returns how many rows changed
	FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error)
}
