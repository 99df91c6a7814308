package wardrobe

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// =============================================================================
// Save DTOs
// =============================================================================

// SaveAnalysisRequest saves an analysis result into a wardrobe.
// AnalysisID, when set, links the created item or look to the stored analysis.
type SaveAnalysisRequest struct {
	UserID         uuid.UUID       `json:"user_id" binding:"required"`
	AnalysisResult analysis.Result `json:"analysis_result"`
	ImageURLs      []string        `json:"image_urls" binding:"omitempty,dive,max=2048"`
	AnalysisID     *uuid.UUID      `json:"analysis_id"`
}

// ImageURL returns the first image URL, or "" without one
func (r SaveAnalysisRequest) ImageURL() string {
	if len(r.ImageURLs) == 0 {
		return ""
	}
	return r.ImageURLs[0]
}

// SaveAnalysisResponse tells what was created. PieceID is set for a single
// piece, LookID and PieceIDs for a complete look.
type SaveAnalysisResponse struct {
	Message  string      `json:"message"`
	PieceID  *uuid.UUID  `json:"piece_id,omitempty"`
	LookID   *uuid.UUID  `json:"look_id,omitempty"`
	PieceIDs []uuid.UUID `json:"piece_ids,omitempty"`
}

// =============================================================================
// Item DTOs
// =============================================================================

// PieceListFilter narrows ListPieces
type PieceListFilter struct {
	PieceType string `form:"piece_type" binding:"omitempty,max=50"`
	Category  string `form:"category" binding:"omitempty,max=50"`
	Favorites bool   `form:"favorites"`
}

// UpdateItemRequest is a partial update; absent fields are left untouched
type UpdateItemRequest struct {
	PieceType    *string          `json:"piece_type" binding:"omitempty,notblank,max=50"`
	Name         *string          `json:"name" binding:"omitempty,notblank,max=200"`
	Colors       *wardrobe.Colors `json:"colors"`
	Material     *string          `json:"material" binding:"omitempty,max=100"`
	Pattern      *string          `json:"pattern" binding:"omitempty,max=100"`
	Fit          *string          `json:"fit" binding:"omitempty,max=100"`
	Details      *[]string        `json:"details"`
	StyleTags    *[]string        `json:"style_tags"`
	OccasionTags *[]string        `json:"occasion_tags"`
	Seasonality  *[]string        `json:"seasonality"`
	ImageURL     *string          `json:"image_url" binding:"omitempty,max=2048"`
	ThumbnailURL *string          `json:"thumbnail_url" binding:"omitempty,max=2048"`
	Brand        *string          `json:"brand" binding:"omitempty,max=100"`
	PriceRange   *string          `json:"price_range" binding:"omitempty,max=50"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
	IsFavorite   *bool            `json:"is_favorite"`
}

// ToDomain converts the request to a domain update
func (r UpdateItemRequest) ToDomain() wardrobe.ItemUpdate {
	return wardrobe.ItemUpdate{
		PieceType:    r.PieceType,
		Name:         r.Name,
		Colors:       r.Colors,
		Material:     r.Material,
		Pattern:      r.Pattern,
		Fit:          r.Fit,
		Details:      r.Details,
		StyleTags:    r.StyleTags,
		OccasionTags: r.OccasionTags,
		Seasonality:  r.Seasonality,
		ImageURL:     r.ImageURL,
		ThumbnailURL: r.ThumbnailURL,
		Brand:        r.Brand,
		PriceRange:   r.PriceRange,
		Notes:        r.Notes,
		IsFavorite:   r.IsFavorite,
	}
}

// ItemResponse represents a clothing item in API responses
type ItemResponse struct {
	PieceID       uuid.UUID       `json:"piece_id"`
	UserID        uuid.UUID       `json:"user_id"`
	PieceType     string          `json:"piece_type"`
	Category      string          `json:"category"`
	CategoryLabel string          `json:"category_label"`
	Name          string          `json:"name"`
	Colors        wardrobe.Colors `json:"colors"`
	Material      string          `json:"material"`
	Pattern       string          `json:"pattern"`
	Fit           string          `json:"fit"`
	Details       []string        `json:"details"`
	StyleTags     []string        `json:"style_tags"`
	OccasionTags  []string        `json:"occasion_tags"`
	Seasonality   []string        `json:"seasonality"`
	ImageURL      string          `json:"image_url"`
	ThumbnailURL  string          `json:"thumbnail_url,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	PriceRange    string          `json:"price_range,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	IsFavorite    bool            `json:"is_favorite"`
	WearCount     int             `json:"wear_count"`
	LastWornAt    *time.Time      `json:"last_worn_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToItemResponse converts a domain item
func ToItemResponse(i *wardrobe.ClothingItem) ItemResponse {
	cat := i.Category()
	return ItemResponse{
		PieceID:       i.ID,
		UserID:        i.UserID,
		PieceType:     i.PieceType,
		Category:      string(cat),
		CategoryLabel: cat.Label(),
		Name:          i.Name,
		Colors:        i.Colors,
		Material:      i.Material,
		Pattern:       i.Pattern,
		Fit:           i.Fit,
		Details:       nonNil(i.Details),
		StyleTags:     nonNil(i.StyleTags),
		OccasionTags:  nonNil(i.OccasionTags),
		Seasonality:   nonNil(i.Seasonality),
		ImageURL:      i.ImageURL,
		ThumbnailURL:  i.ThumbnailURL,
		Brand:         i.Brand,
		PriceRange:    i.PriceRange,
		Notes:         i.Notes,
		IsFavorite:    i.IsFavorite,
		WearCount:     i.WearCount,
		LastWornAt:    i.LastWornAt,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ToItemResponses converts a list of items
func ToItemResponses(items []wardrobe.ClothingItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}

// CategoryCount is the number of pieces in a main category
type CategoryCount struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// PiecesResponse is a wardrobe listing grouped by main category
type PiecesResponse struct {
	Pieces     []ItemResponse  `json:"pieces"`
	Categories []CategoryCount `json:"categories"`
}

// CountByCategory counts items per main category, in display order,
// leaving out empty categories
func CountByCategory(items []ItemResponse) []CategoryCount {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for _, c := range wardrobe.AllCategories() {
		if n := counts[string(c)]; n > 0 {
			out = append(out, CategoryCount{Category: string(c), Label: c.Label(), Count: n})
		}
	}
	return out
}

// =============================================================================
// Look DTOs
// =============================================================================

// LookPieceResponse is one piece of a look
type LookPieceResponse struct {
	ID          uuid.UUID             `json:"id"`
	Position    int                   `json:"position"`
	BoundingBox *wardrobe.BoundingBox `json:"bounding_box,omitempty"`
	PieceType   string                `json:"piece_type,omitempty"`
	Name        string                `json:"name,omitempty"`
	Colors      *wardrobe.Colors      `json:"colors,omitempty"`
	ImageURL    string                `json:"image_url,omitempty"`
}

// LookResponse represents an outfit look in API responses
type LookResponse struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	Name            string                `json:"name"`
	DominantStyle   []string              `json:"dominant_style"`
	OccasionTags    []string              `json:"occasion_tags"`
	Seasonality     []string              `json:"seasonality"`
	ColorPalette    wardrobe.ColorPalette `json:"color_palette"`
	PatternMix      []string              `json:"pattern_mix"`
	Silhouette      string                `json:"silhouette"`
	LayeringLevel   int                   `json:"layering_level"`
	ImageURL        string                `json:"image_url"`
	Notes           string                `json:"notes,omitempty"`
	WeatherSuitable []string              `json:"weather_suitable"`
	Rating          int                   `json:"rating"`
	IsFavorite      bool                  `json:"is_favorite"`
	WearCount       int                   `json:"wear_count"`
	LastWornAt      *time.Time            `json:"last_worn_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	Pieces          []LookPieceResponse   `json:"pieces"`
}

// ToLookResponse converts a domain look with its pieces in position order
func ToLookResponse(l *wardrobe.OutfitLook) LookResponse {
	l.SortItems()
	pieces := make([]LookPieceResponse, 0, len(l.Items))
	for _, li := range l.Items {
		p := LookPieceResponse{ID: li.ItemID, Position: li.Position, BoundingBox: li.BoundingBox}
		if li.Item != nil {
			colors := li.Item.Colors
			p.PieceType = li.Item.PieceType
			p.Name = li.Item.Name
			p.Colors = &colors
			p.ImageURL = li.Item.ImageURL
		}
		pieces = append(pieces, p)
	}
	return LookResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		Name:            l.Name,
		DominantStyle:   nonNil(l.DominantStyle),
		OccasionTags:    nonNil(l.OccasionTags),
		Seasonality:     nonNil(l.Seasonality),
		ColorPalette:    l.ColorPalette,
		PatternMix:      nonNil(l.PatternMix),
		Silhouette:      l.Silhouette,
		LayeringLevel:   l.LayeringLevel,
		ImageURL:        l.ImageURL,
		Notes:           l.Notes,
		WeatherSuitable: nonNil(l.WeatherSuitable),
		Rating:          l.Rating,
		IsFavorite:      l.IsFavorite,
		WearCount:       l.WearCount,
		LastWornAt:      l.LastWornAt,
		CreatedAt:       l.CreatedAt,
		Pieces:          pieces,
	}
}

// ToLookResponses converts a list of looks
func ToLookResponses(looks []wardrobe.OutfitLook) []LookResponse {
	out := make([]LookResponse, len(looks))
	for i := range looks {
		out[i] = ToLookResponse(&looks[i])
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
