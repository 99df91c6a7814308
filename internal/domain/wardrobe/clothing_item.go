package wardrobe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// ClothingItem is a single garment (or a full outfit photographed as one
// piece) stored in a user's wardrobe.
type ClothingItem struct {
	shared.OwnedAggregateRoot
	PieceType    string
	Name         string
	Colors       Colors
	Material     string
	Pattern      string
	Fit          string
	Details      StringList
	StyleTags    StringList
	OccasionTags StringList
	Seasonality  StringList
	ImageURL     string
	ThumbnailURL string
	Brand        string
	PriceRange   string
	Notes        string
	LastWornAt   *time.Time
	WearCount    int
	IsFavorite   bool
	IsActive     bool
}

// ItemSpec carries the attributes of a new clothing item.
// ID is optional; analysis results supply the piece id so that saving
// twice does not duplicate the item.
type ItemSpec struct {
	ID           uuid.UUID
	PieceType    string
	Name         string
	Colors       Colors
	Material     string
	Pattern      string
	Fit          string
	Details      []string
	StyleTags    []string
	OccasionTags []string
	Seasonality  []string
	ImageURL     string
	ThumbnailURL string
	Brand        string
	PriceRange   string
	Notes        string
}

// NewClothingItem creates an active clothing item owned by userID
func NewClothingItem(userID uuid.UUID, spec ItemSpec) (*ClothingItem, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	pieceType := strings.ToLower(strings.TrimSpace(spec.PieceType))
	if pieceType == "" {
		return nil, shared.NewDomainError("INVALID_PIECE_TYPE", "Piece type cannot be empty")
	}

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = pieceType
	}

	item := &ClothingItem{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		PieceType:          pieceType,
		Name:               name,
		Colors:             spec.Colors.normalized(),
		Material:           spec.Material,
		Pattern:            spec.Pattern,
		Fit:                spec.Fit,
		Details:            toList(spec.Details),
		StyleTags:          toList(spec.StyleTags),
		OccasionTags:       toList(spec.OccasionTags),
		Seasonality:        NormalizeSeasonality(spec.Seasonality),
		ImageURL:           spec.ImageURL,
		ThumbnailURL:       spec.ThumbnailURL,
		Brand:              spec.Brand,
		PriceRange:         spec.PriceRange,
		Notes:              spec.Notes,
		IsActive:           true,
	}
	if spec.ID != uuid.Nil {
		item.ID = spec.ID
	}

	item.Record(NewClothingItemCreatedEvent(item))

	return item, nil
}

// Category returns the main category derived from the piece type
func (i *ClothingItem) Category() Category {
	return CategoryOf(i.PieceType)
}

// ItemUpdate holds a partial update. Nil fields are left untouched.
type ItemUpdate struct {
	PieceType    *string
	Name         *string
	Colors       *Colors
	Material     *string
	Pattern      *string
	Fit          *string
	Details      *[]string
	StyleTags    *[]string
	OccasionTags *[]string
	Seasonality  *[]string
	ImageURL     *string
	ThumbnailURL *string
	Brand        *string
	PriceRange   *string
	Notes        *string
	IsFavorite   *bool
}

// IsEmpty reports whether the update carries no field at all
func (u ItemUpdate) IsEmpty() bool {
	return u.PieceType == nil && u.Name == nil && u.Colors == nil &&
		u.Material == nil && u.Pattern == nil && u.Fit == nil &&
		u.Details == nil && u.StyleTags == nil && u.OccasionTags == nil &&
		u.Seasonality == nil && u.ImageURL == nil && u.ThumbnailURL == nil &&
		u.Brand == nil && u.PriceRange == nil && u.Notes == nil && u.IsFavorite == nil
}

// ApplyUpdate changes only the fields present in u
func (i *ClothingItem) ApplyUpdate(u ItemUpdate) error {
	if !i.IsActive {
		return shared.NewDomainError("ITEM_INACTIVE", "Cannot update a deleted item")
	}
	if u.IsEmpty() {
		return shared.ErrInvalidInput.WithMessage("No field to update")
	}

	if u.PieceType != nil {
		pt := strings.ToLower(strings.TrimSpace(*u.PieceType))
		if pt == "" {
			return shared.NewDomainError("INVALID_PIECE_TYPE", "Piece type cannot be empty")
		}
		i.PieceType = pt
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
		}
		i.Name = name
	}
	if u.Colors != nil {
		i.Colors = u.Colors.normalized()
	}
	assign(&i.Material, u.Material)
	assign(&i.Pattern, u.Pattern)
	assign(&i.Fit, u.Fit)
	if u.Details != nil {
		i.Details = toList(*u.Details)
	}
	if u.StyleTags != nil {
		i.StyleTags = toList(*u.StyleTags)
	}
	if u.OccasionTags != nil {
		i.OccasionTags = toList(*u.OccasionTags)
	}
	if u.Seasonality != nil {
		i.Seasonality = NormalizeSeasonality(*u.Seasonality)
	}
	assign(&i.ImageURL, u.ImageURL)
	assign(&i.ThumbnailURL, u.ThumbnailURL)
	assign(&i.Brand, u.Brand)
	assign(&i.PriceRange, u.PriceRange)
	assign(&i.Notes, u.Notes)
	if u.IsFavorite != nil {
		i.IsFavorite = *u.IsFavorite
	}

	i.touch()
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value
func (i *ClothingItem) ToggleFavorite() (bool, error) {
	if !i.IsActive {
		return false, shared.NewDomainError("ITEM_INACTIVE", "Cannot update a deleted item")
	}
	i.IsFavorite = !i.IsFavorite
	i.touch()
	return i.IsFavorite, nil
}

// Deactivate soft-deletes the item
func (i *ClothingItem) Deactivate() error {
	if !i.IsActive {
		return shared.NewDomainError("ALREADY_DELETED", "Item is already deleted")
	}
	i.IsActive = false
	i.touch()
	i.Record(NewClothingItemDeletedEvent(i))
	return nil
}

// RecordWear counts one more wear at the given time. Older wear dates never
// move LastWornAt backwards.
func (i *ClothingItem) RecordWear(at time.Time) {
	i.WearCount++
	if i.LastWornAt == nil || at.After(*i.LastWornAt) {
		t := at
		i.LastWornAt = &t
	}
	i.touch()
}

func (i *ClothingItem) touch() {
	i.Modified()
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func toList(values []string) StringList {
	out := make(StringList, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
