package wardrobe

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

const (
	MinLayeringLevel = 1
	MaxLayeringLevel = 5
	MaxRating        = 5
)

// OutfitLook is a complete outfit made of several clothing items
type OutfitLook struct {
	shared.OwnedAggregateRoot
	Name            string
	DominantStyle   StringList
	OccasionTags    StringList
	Seasonality     StringList
	ColorPalette    ColorPalette
	PatternMix      StringList
	Silhouette      string
	LayeringLevel   int
	ImageURL        string
	ThumbnailURL    string
	Notes           string
	WeatherSuitable StringList
	LastWornAt      *time.Time
	WearCount       int
	Rating          int
	IsFavorite      bool
	Items           []LookItem
}

// LookItem links a clothing item to a look at a given position
type LookItem struct {
	LookID      uuid.UUID
	ItemID      uuid.UUID
	Position    int
	BoundingBox *BoundingBox
	Item        *ClothingItem
}

// LookSpec carries the attributes of a new outfit look
type LookSpec struct {
	ID              uuid.UUID
	DominantStyle   []string
	OccasionTags    []string
	Seasonality     []string
	ColorPalette    ColorPalette
	PatternMix      []string
	Silhouette      string
	LayeringLevel   int
	ImageURL        string
	ThumbnailURL    string
	Notes           string
	WeatherSuitable []string
}

// LookName derives the display name of a look from its dominant styles
func LookName(dominantStyle []string) string {
	for _, s := range dominantStyle {
		if s = strings.TrimSpace(s); s != "" {
			return "Look " + s
		}
	}
	return "Look"
}

// NewOutfitLook creates a look owned by userID, without items
func NewOutfitLook(userID uuid.UUID, spec LookSpec) (*OutfitLook, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	level := spec.LayeringLevel
	if level == 0 {
		level = MinLayeringLevel
	}
	if level < MinLayeringLevel || level > MaxLayeringLevel {
		return nil, shared.NewDomainError("INVALID_LAYERING_LEVEL", "Layering level must be between 1 and 5")
	}

	look := &OutfitLook{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               LookName(spec.DominantStyle),
		DominantStyle:      toList(spec.DominantStyle),
		OccasionTags:       toList(spec.OccasionTags),
		Seasonality:        NormalizeSeasonality(spec.Seasonality),
		ColorPalette:       spec.ColorPalette,
		PatternMix:         toList(spec.PatternMix),
		Silhouette:         spec.Silhouette,
		LayeringLevel:      level,
		ImageURL:           spec.ImageURL,
		ThumbnailURL:       spec.ThumbnailURL,
		Notes:              spec.Notes,
		WeatherSuitable:    toList(spec.WeatherSuitable),
		Items:              make([]LookItem, 0),
	}
	if spec.ID != uuid.Nil {
		look.ID = spec.ID
	}

	look.Record(NewOutfitLookCreatedEvent(look))

	return look, nil
}

// AddItem links an item to the look. Each item and position may only appear once.
func (l *OutfitLook) AddItem(itemID uuid.UUID, position int, box *BoundingBox) error {
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM_ID", "Item ID cannot be empty")
	}
	if position < 0 {
		return shared.NewDomainError("INVALID_POSITION", "Position cannot be negative")
	}
	if box != nil {
		if err := box.Validate(); err != nil {
			return shared.NewDomainError("INVALID_BOUNDING_BOX", err.Error())
		}
	}
	for _, li := range l.Items {
		if li.ItemID == itemID {
			return shared.NewDomainError("DUPLICATE_LOOK_ITEM", "Item is already part of the look")
		}
		if li.Position == position {
			return shared.NewDomainError("DUPLICATE_POSITION", "Position is already taken")
		}
	}

	l.Items = append(l.Items, LookItem{
		LookID:      l.ID,
		ItemID:      itemID,
		Position:    position,
		BoundingBox: box,
	})
	l.SortItems()
	return nil
}

// SortItems orders the items by position
func (l *OutfitLook) SortItems() {
	sort.SliceStable(l.Items, func(a, b int) bool {
		return l.Items[a].Position < l.Items[b].Position
	})
}

// ItemIDs returns the ids of the look items in position order
func (l *OutfitLook) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(l.Items))
	for i, li := range l.Items {
		ids[i] = li.ItemID
	}
	return ids
}

// Rate sets the rating of the look
func (l *OutfitLook) Rate(rating int) error {
	if rating < 0 || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	l.Rating = rating
	l.Modified()
	return nil
}

// RecordWear counts one more wear of the whole look
func (l *OutfitLook) RecordWear(at time.Time) {
	l.WearCount++
	if l.LastWornAt == nil || at.After(*l.LastWornAt) {
		t := at
		l.LastWornAt = &t
	}
	l.Modified()
}
