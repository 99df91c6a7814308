package recommendation

import (
	"strings"

	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// Piece is the view of a wardrobe item the recommendation engine works on.
// It is built from stored clothing items or from items sent by the client.
type Piece struct {
	ID          string
	Name        string
	Brand       string
	Category    string
	PieceType   string
	Colors      []string
	Materials   []string
	Seasons     []string
	Tags        []string
	ImageURL    string
	IsFavorite  bool
	Style       string
	Description string
}

// PieceFromItem builds the recommendation view of a stored clothing item
func PieceFromItem(item *wardrobe.ClothingItem) Piece {
	colors := append(append([]string{}, item.Colors.Primary...), item.Colors.Secondary...)
	materials := []string{}
	if item.Material != "" {
		materials = append(materials, item.Material)
	}
	tags := append(append([]string{}, item.StyleTags...), item.OccasionTags...)
	style := ""
	if len(item.StyleTags) > 0 {
		style = item.StyleTags[0]
	}

	return Piece{
		ID:          item.ID.String(),
		Name:        item.Name,
		Brand:       item.Brand,
		Category:    string(item.Category()),
		PieceType:   item.PieceType,
		Colors:      colors,
		Materials:   materials,
		Seasons:     append([]string{}, item.Seasonality...),
		Tags:        tags,
		ImageURL:    item.ImageURL,
		IsFavorite:  item.IsFavorite,
		Style:       style,
		Description: item.Notes,
	}
}

// IsFullOutfit reports whether the piece is a photographed complete outfit
func (p Piece) IsFullOutfit() bool {
	return wardrobe.Category(strings.ToLower(p.Category)) == wardrobe.CategoryFullOutfit ||
		wardrobe.CategoryOf(p.PieceType) == wardrobe.CategoryFullOutfit ||
		strings.EqualFold(p.PieceType, "outfit")
}

// IndexPieces maps lower-cased ids to pieces
func IndexPieces(pieces []Piece) map[string]Piece {
	idx := make(map[string]Piece, len(pieces))
	for _, p := range pieces {
		idx[strings.ToLower(p.ID)] = p
	}
	return idx
}
