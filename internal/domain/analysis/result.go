package analysis

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// Result is the structured analysis returned to clients
type Result struct {
	CaptureType CaptureType     `json:"capture_type"`
	Pieces      []ClothingPiece `json:"pieces"`
	LookMeta    *LookMeta       `json:"look_meta,omitempty"`
}

// ClothingPiece describes one garment detected on the photo
type ClothingPiece struct {
	PieceID      uuid.UUID             `json:"piece_id"`
	PieceType    string                `json:"piece_type"`
	Name         string                `json:"name"`
	Attributes   PieceAttributes       `json:"attributes"`
	StyleTags    []string              `json:"style_tags"`
	OccasionTags []string              `json:"occasion_tags"`
	Seasonality  []string              `json:"seasonality"`
	BoundingBox  *wardrobe.BoundingBox `json:"bounding_box,omitempty"`
}

// PieceAttributes holds the visual attributes of a piece
type PieceAttributes struct {
	Colors   wardrobe.Colors `json:"colors"`
	Material string          `json:"material"`
	Pattern  string          `json:"pattern"`
	Fit      string          `json:"fit"`
	Details  []string        `json:"details"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PieceAttributes) Value() (driver.Value, error) {
	if p.Details == nil {
		p.Details = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PieceAttributes) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// LookMeta describes a complete look as a whole
type LookMeta struct {
	LookID             uuid.UUID             `json:"look_id"`
	DominantStyle      []string              `json:"dominant_style"`
	OccasionTags       []string              `json:"occasion_tags"`
	Seasonality        []string              `json:"seasonality"`
	ColorPaletteGlobal wardrobe.ColorPalette `json:"color_palette_global"`
	PatternMix         []string              `json:"pattern_mix"`
	Silhouette         string                `json:"silhouette"`
	LayeringLevel      int                   `json:"layering_level"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (m LookMeta) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (m *LookMeta) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// ToItemSpec converts the piece to the attributes of a wardrobe item
func (p ClothingPiece) ToItemSpec(imageURL string) wardrobe.ItemSpec {
	return wardrobe.ItemSpec{
		ID:           p.PieceID,
		PieceType:    p.PieceType,
		Name:         p.Name,
		Colors:       p.Attributes.Colors,
		Material:     p.Attributes.Material,
		Pattern:      p.Attributes.Pattern,
		Fit:          p.Attributes.Fit,
		Details:      p.Attributes.Details,
		StyleTags:    p.StyleTags,
		OccasionTags: p.OccasionTags,
		Seasonality:  p.Seasonality,
		ImageURL:     imageURL,
	}
}

// ToLookSpec converts the look meta to the attributes of a wardrobe look
func (m LookMeta) ToLookSpec(imageURL string) wardrobe.LookSpec {
	return wardrobe.LookSpec{
		ID:            m.LookID,
		DominantStyle: m.DominantStyle,
		OccasionTags:  m.OccasionTags,
		Seasonality:   m.Seasonality,
		ColorPalette:  m.ColorPaletteGlobal,
		PatternMix:    m.PatternMix,
		Silhouette:    m.Silhouette,
		LayeringLevel: m.LayeringLevel,
		ImageURL:      imageURL,
	}
}

// Validate checks the result before it is saved to a wardrobe
func (r *Result) Validate() error {
	if !r.CaptureType.IsValid() {
		return shared.NewDomainError("INVALID_CAPTURE_TYPE", "Capture type must be single_piece or complete_look")
	}
	if len(r.Pieces) == 0 {
		return shared.ErrInvalidInput.WithMessage("Analysis contains no piece")
	}
	for _, p := range r.Pieces {
		if strings.TrimSpace(p.PieceType) == "" {
			return shared.NewDomainError("INVALID_PIECE_TYPE", "Every piece needs a piece_type")
		}
	}
	return nil
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan JSON value: unsupported type")
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
