package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// OutfitPiece is a piece detected by an analysis, stored in outfit_pieces
type OutfitPiece struct {
	ID           uuid.UUID
	AnalysisID   uuid.UUID
	Position     int
	PieceType    string
	Name         string
	Attributes   PieceAttributes
	StyleTags    wardrobe.StringList
	OccasionTags wardrobe.StringList
	Seasonality  wardrobe.StringList
	BoundingBox  *wardrobe.BoundingBox
	CreatedAt    time.Time
}

// PiecesFromResult builds the stored pieces of an analysis, positioned by index
func PiecesFromResult(analysisID uuid.UUID, result *Result) []OutfitPiece {
	now := time.Now()
	pieces := make([]OutfitPiece, len(result.Pieces))
	for i, p := range result.Pieces {
		pieces[i] = OutfitPiece{
			ID:           p.PieceID,
			AnalysisID:   analysisID,
			Position:     i,
			PieceType:    p.PieceType,
			Name:         p.Name,
			Attributes:   p.Attributes,
			StyleTags:    wardrobe.StringList(p.StyleTags),
			OccasionTags: wardrobe.StringList(p.OccasionTags),
			Seasonality:  wardrobe.StringList(p.Seasonality),
			BoundingBox:  p.BoundingBox,
			CreatedAt:    now,
		}
	}
	return pieces
}

// ToClothingPiece converts the stored piece back to its wire form
func (p OutfitPiece) ToClothingPiece() ClothingPiece {
	return ClothingPiece{
		PieceID:      p.ID,
		PieceType:    p.PieceType,
		Name:         p.Name,
		Attributes:   p.Attributes,
		StyleTags:    nonNil(p.StyleTags),
		OccasionTags: nonNil(p.OccasionTags),
		Seasonality:  nonNil(p.Seasonality),
		BoundingBox:  p.BoundingBox,
	}
}
