package recommendation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence operations for tracked recommendations
type Repository interface {
	// Save creates or updates a record
	Save(ctx context.Context, record *Record) error

	// FindByID finds a record by its row id
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// FindSince lists the records of a user recommended at or after since,
	// newest first. limit <= 0 means no limit.
	FindSince(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]Record, error)

	// FindLatestByRecommendationID finds the newest record of a user for a recommendation id
	FindLatestByRecommendationID(ctx context.Context, userID uuid.UUID, recommendationID string) (*Record, error)

	// FindAllByUser lists every record of a user
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Record, error)

	// DeleteOlderThan removes records recommended before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
