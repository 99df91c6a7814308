package wardrobe

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemFilter narrows a wardrobe listing. Empty fields are ignored.
type ItemFilter struct {
	PieceType     string
	Category      Category
	FavoritesOnly bool
}

// ClothingItemReader defines read access to clothing items
type ClothingItemReader interface {
	// FindByID finds an item by its ID, active or not
	FindByID(ctx context.Context, id uuid.UUID) (*ClothingItem, error)

	// FindByIDs finds the active items among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ClothingItem, error)

	// FindActiveByUser lists the active items of a user, newest first
	FindActiveByUser(ctx context.Context, userID uuid.UUID, filter ItemFilter) ([]ClothingItem, error)

	// ExistingIDs returns the subset of ids that are already stored
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// ClothingItemWriter defines write access to clothing items
type ClothingItemWriter interface {
	// Save creates or updates an item
	Save(ctx context.Context, item *ClothingItem) error

	// RecordWear increments wear_count and moves last_worn_at forward for every id
	RecordWear(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
}

// ClothingItemRepository combines read and write access to clothing items
type ClothingItemRepository interface {
	ClothingItemReader
	ClothingItemWriter
}

// OutfitLookRepository defines persistence operations for looks
type OutfitLookRepository interface {
	// FindByID finds a look with its items ordered by position
	FindByID(ctx context.Context, id uuid.UUID) (*OutfitLook, error)

	// FindByUser lists the looks of a user, newest first, each with its items
	FindByUser(ctx context.Context, userID uuid.UUID) ([]OutfitLook, error)

	// SaveWithItems stores the look, the given new items and the look_items
	// links in a single transaction
	SaveWithItems(ctx context.Context, look *OutfitLook, newItems []*ClothingItem) error

	// RecordWear bumps the wear counters of the looks containing every item in ids
	RecordWear(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID, at time.Time) (int64, error)
}
