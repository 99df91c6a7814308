package recommendation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// Type classifies a tracked recommendation
type Type string

const (
	TypeSingleItem   Type = "single_item"
	TypeCombination  Type = "combination"
	TypeCompleteLook Type = "complete_look"
)

// IsValid checks if the type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeSingleItem, TypeCombination, TypeCompleteLook:
		return true
	default:
		return false
	}
}

// InferType classifies a recommendation: combos are combinations, a single
// full outfit is a complete look, anything else a single item
func InferType(id string, pieces []Piece) Type {
	if IsComboID(id) || len(pieces) > 1 {
		return TypeCombination
	}
	if len(pieces) == 1 && pieces[0].IsFullOutfit() {
		return TypeCompleteLook
	}
	return TypeSingleItem
}

const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Record is one recommendation shown to a user, stored in recommendation_tracking
type Record struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RecommendationID string
	Type             Type
	ItemIDs          wardrobe.StringList
	Weather          *Weather
	Score            *float64
	Reason           string
	WasWorn          bool
	WornAt           *time.Time
	RecommendedAt    time.Time
}

// NewRecord creates a tracking row. When itemIDs is empty they are derived
// from the recommendation id.
func NewRecord(userID uuid.UUID, recommendationID string, typ Type, itemIDs []string, weather *Weather, score *float64, reason string) (*Record, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	recommendationID = strings.TrimSpace(recommendationID)
	if recommendationID == "" {
		return nil, shared.NewDomainError("INVALID_RECOMMENDATION_ID", "Recommendation ID cannot be empty")
	}
	if typ == "" {
		typ = InferType(recommendationID, nil)
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECOMMENDATION_TYPE", "Unknown recommendation type: "+string(typ))
	}
	if score != nil && (*score < MinScore || *score > MaxScore) {
		return nil, shared.NewDomainError("INVALID_SCORE", "Score must be between 0 and 100")
	}
	if len(itemIDs) == 0 {
		itemIDs = MemberIDs(recommendationID)
	}

	return &Record{
		ID:               uuid.New(),
		UserID:           userID,
		RecommendationID: recommendationID,
		Type:             typ,
		ItemIDs:          wardrobe.StringList(itemIDs),
		Weather:          weather,
		Score:            score,
		Reason:           reason,
		RecommendedAt:    time.Now(),
	}, nil
}

// RecordFor creates the tracking row of a resolved recommendation
func RecordFor(userID uuid.UUID, rec Recommendation, weather *Weather) (*Record, error) {
	return NewRecord(userID, rec.ID, rec.Type, rec.ItemIDs(), weather, rec.Score, rec.Reason)
}

// MarkWorn flags the recommendation as worn. Marking twice keeps the first date.
func (r *Record) MarkWorn(at time.Time) {
	if r.WasWorn {
		return
	}
	r.WasWorn = true
	r.WornAt = &at
}

// Contains reports whether the record refers to itemID
func (r *Record) Contains(itemID string) bool {
	if strings.EqualFold(r.RecommendationID, itemID) {
		return true
	}
	for _, id := range r.ItemIDs {
		if strings.EqualFold(id, itemID) {
			return true
		}
	}
	return false
}

// RecentlyRecommended returns the subset of itemIDs referred to by records,
// keeping the order of itemIDs
func RecentlyRecommended(records []Record, itemIDs []string) []string {
	out := make([]string, 0)
	for _, id := range itemIDs {
		for i := range records {
			if records[i].Contains(id) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
