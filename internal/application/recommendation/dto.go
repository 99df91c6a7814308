package recommendation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wardrobe/backend/internal/domain/recommendation"
)

// =============================================================================
// Daily recommendation DTOs
// =============================================================================

// PieceInput is a wardrobe item sent by the client with a daily request
type PieceInput struct {
	ID          string   `json:"id" binding:"required"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	PieceType   string   `json:"piece_type"`
	Colors      []string `json:"colors"`
	Materials   []string `json:"materials"`
	Seasons     []string `json:"seasons"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image_url"`
	IsFavorite  bool     `json:"is_favorite"`
	Style       string   `json:"style"`
	Description string   `json:"description"`
}

// ToPiece converts the input to the engine view
func (p PieceInput) ToPiece() recommendation.Piece {
	return recommendation.Piece{
		ID:          strings.TrimSpace(p.ID),
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		PieceType:   p.PieceType,
		Colors:      p.Colors,
		Materials:   p.Materials,
		Seasons:     p.Seasons,
		Tags:        p.Tags,
		ImageURL:    p.ImageURL,
		IsFavorite:  p.IsFavorite,
		Style:       p.Style,
		Description: p.Description,
	}
}

// DailyRequest asks for today's outfit
type DailyRequest struct {
	UserID                    *uuid.UUID   `json:"user_id"`
	City                      string       `json:"city" binding:"omitempty,max=100"`
	CountryCode               string       `json:"country_code" binding:"omitempty,len=2"`
	WardrobeItems             []PieceInput `json:"wardrobe_items" binding:"omitempty,dive"`
	UserNeeds                 string       `json:"user_needs" binding:"omitempty,max=1000"`
	CurrentSeason             string       `json:"current_season"`
	RecentlyWornIDs           []string     `json:"recently_worn_ids"`
	RecentlyRecommendedIDs    []string     `json:"recently_recommended_ids"`
	RecentlyRecommendedCombos []string     `json:"recently_recommended_combos"`
}

// Pieces converts the client wardrobe, skipping items without id
func (r DailyRequest) Pieces() []recommendation.Piece {
	out := make([]recommendation.Piece, 0, len(r.WardrobeItems))
	for _, in := range r.WardrobeItems {
		if p := in.ToPiece(); p.ID != "" {
			out = append(out, p)
		}
	}
	return out
}

// Exclusions returns the exclusion lists carried by the request
func (r DailyRequest) Exclusions() recommendation.Exclusions {
	return recommendation.Exclusions{
		RecentlyWornIDs:           r.RecentlyWornIDs,
		RecentlyRecommendedIDs:    r.RecentlyRecommendedIDs,
		RecentlyRecommendedCombos: r.RecentlyRecommendedCombos,
	}
}

// PieceResponse is a wardrobe piece inside a recommendation
type PieceResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand,omitempty"`
	Category   string   `json:"category"`
	PieceType  string   `json:"piece_type,omitempty"`
	Colors     []string `json:"colors"`
	Materials  []string `json:"materials"`
	ImageURL   string   `json:"image_url"`
	IsFavorite bool     `json:"is_favorite"`
}

// RecommendationResponse is one outfit proposed for today
type RecommendationResponse struct {
	ID                     string          `json:"id"`
	Type                   string          `json:"type"`
	Name                   string          `json:"name"`
	IsMultiplePieces       bool            `json:"is_multiple_pieces"`
	Pieces                 []PieceResponse `json:"pieces"`
	Score                  *float64        `json:"score,omitempty"`
	Reason                 string          `json:"reason,omitempty"`
	WeatherAdaptation      string          `json:"weather_adaptation,omitempty"`
	StyleTips              string          `json:"style_tips,omitempty"`
	WasRecentlyRecommended bool            `json:"was_recently_recommended"`
	WasRecentlyWorn        bool            `json:"was_recently_worn"`
	Fallback               bool            `json:"fallback"`
}

// DailyResponse is the weather of the day with the chosen outfits
type DailyResponse struct {
	Weather         recommendation.Weather   `json:"weather"`
	Season          string                   `json:"season"`
	Recommendations []RecommendationResponse `json:"recommendations"`
	Fallback        bool                     `json:"fallback"`
}

// ToRecommendationResponse converts a resolved recommendation
func ToRecommendationResponse(r recommendation.Recommendation) RecommendationResponse {
	pieces := make([]PieceResponse, len(r.Pieces))
	for i, p := range r.Pieces {
		pieces[i] = PieceResponse{
			ID:         p.ID,
			Name:       p.Name,
			Brand:      p.Brand,
			Category:   p.Category,
			PieceType:  p.PieceType,
			Colors:     nonNil(p.Colors),
			Materials:  nonNil(p.Materials),
			ImageURL:   p.ImageURL,
			IsFavorite: p.IsFavorite,
		}
	}
	return RecommendationResponse{
		ID:                     r.ID,
		Type:                   string(r.Type),
		Name:                   r.Name,
		IsMultiplePieces:       recommendation.IsComboID(r.ID) || len(r.Pieces) > 1,
		Pieces:                 pieces,
		Score:                  r.Score,
		Reason:                 r.Reason,
		WeatherAdaptation:      r.WeatherAdaptation,
		StyleTips:              r.StyleTips,
		WasRecentlyRecommended: r.WasRecentlyRecommended,
		WasRecentlyWorn:        r.WasRecentlyWorn,
		Fallback:               r.Fallback,
	}
}

// =============================================================================
// Stylist text DTOs
// =============================================================================

// MatchRequest asks which wardrobe items go with item
type MatchRequest struct {
	Item     map[string]any   `json:"item" binding:"required"`
	Wardrobe []map[string]any `json:"wardrobe"`
}

// MatchResponse carries the stylist's answer
type MatchResponse struct {
	Matches string `json:"matches"`
}

// SuggestionsResponse carries the stylist's answer
type SuggestionsResponse struct {
	Suggestions string `json:"suggestions"`
}

// =============================================================================
// Tracking DTOs
// =============================================================================

// TrackRequest stores a recommendation shown to a user
type TrackRequest struct {
	UserID           uuid.UUID               `json:"user_id" binding:"required"`
	RecommendationID string                  `json:"recommendation_id" binding:"required,notblank,max=1024"`
	Type             string                  `json:"recommendation_type" binding:"omitempty,oneof=single_item combination complete_look"`
	ItemIDs          []string                `json:"item_ids"`
	Weather          *recommendation.Weather `json:"weather_data"`
	Score            *float64                `json:"score" binding:"omitempty,min=0,max=100"`
	Reason           string                  `json:"reason"`
}

// RecordResponse represents a tracked recommendation in API responses
type RecordResponse struct {
	ID               uuid.UUID               `json:"id"`
	UserID           uuid.UUID               `json:"user_id"`
	RecommendationID string                  `json:"recommendation_id"`
	Type             string                  `json:"recommendation_type"`
	ItemIDs          []string                `json:"item_ids"`
	Weather          *recommendation.Weather `json:"weather_data,omitempty"`
	Score            *float64                `json:"score,omitempty"`
	Reason           string                  `json:"reason,omitempty"`
	WasWorn          bool                    `json:"was_worn"`
	WornAt           *time.Time              `json:"worn_at,omitempty"`
	RecommendedAt    time.Time               `json:"recommended_at"`
}

// ToRecordResponse converts a domain record
func ToRecordResponse(r *recommendation.Record) RecordResponse {
	return RecordResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		RecommendationID: r.RecommendationID,
		Type:             string(r.Type),
		ItemIDs:          nonNil(r.ItemIDs),
		Weather:          r.Weather,
		Score:            r.Score,
		Reason:           r.Reason,
		WasWorn:          r.WasWorn,
		WornAt:           r.WornAt,
		RecommendedAt:    r.RecommendedAt,
	}
}

// ToRecordResponses converts a list of records
func ToRecordResponses(records []recommendation.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = ToRecordResponse(&records[i])
	}
	return out
}

// WindowFilter bounds a tracking listing. Nil fields take the listing's
// default; an explicit zero is rejected.
type WindowFilter struct {
	Days  *int `form:"days" binding:"omitempty,min=1,max=365"`
	Limit *int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// HistoryEntry is a tracked recommendation with display details of its first item
type HistoryEntry struct {
	RecordResponse
	ItemName string `json:"item_name"`
	Category string `json:"category"`
	ImageURL string `json:"image_url,omitempty"`
}

// CheckRequest asks which items were recommended recently
type CheckRequest struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	ItemIDs []string  `json:"item_ids" binding:"required"`
	Days    *int      `json:"days" binding:"omitempty,min=1,max=365"`
}

// CheckResponse lists the recently recommended subset of the requested ids
type CheckResponse struct {
	RecentlyRecommended []string `json:"recently_recommended"`
}

// ItemCountResponse is how many times an item was recommended
type ItemCountResponse struct {
	ItemID string `json:"item_id"`
	Count  int    `json:"count"`
}

// StatsResponse summarizes the recommendations made to a user
type StatsResponse struct {
	Total           int                 `json:"total"`
	Worn            int                 `json:"worn"`
	WornRate        float64             `json:"worn_rate"`
	ByType          map[string]int      `json:"by_type"`
	MostRecommended []ItemCountResponse `json:"most_recommended"`
}

// ToStatsResponse converts domain stats
func ToStatsResponse(s recommendation.Stats) StatsResponse {
	byType := make(map[string]int, len(s.ByType))
	for t, n := range s.ByType {
		byType[string(t)] = n
	}
	most := make([]ItemCountResponse, len(s.MostRecommended))
	for i, c := range s.MostRecommended {
		most[i] = ItemCountResponse{ItemID: c.ItemID, Count: c.Count}
	}
	return StatsResponse{
		Total:           s.Total,
		Worn:            s.Worn,
		WornRate:        s.WornRate,
		ByType:          byType,
		MostRecommended: most,
	}
}

// =============================================================================
// Wear history DTOs
// =============================================================================

// MarkWornRequest marks an item or a combination as worn
type MarkWornRequest struct {
	UserID uuid.UUID  `json:"user_id" binding:"required"`
	ID     string     `json:"id" binding:"required,max=1024"`
	WornAt *time.Time `json:"worn_at"`
}

// WearHistoryResponse is the wear log of a user
type WearHistoryResponse struct {
	Entries         []recommendation.WearEntry `json:"entries"`
	RecentlyWornIDs []string                   `json:"recently_worn_ids"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
