package analysis

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// ErrEmptyReply is returned when the analyzer answered with no content
var ErrEmptyReply = shared.ErrAnalysisFailed.WithMessage("Analyzer returned an empty reply")

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// StripCodeFences removes a surrounding markdown code block (```json ... ```)
func StripCodeFences(reply string) string {
	s := strings.TrimSpace(reply)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

type replyPiece struct {
	PieceType    string                `json:"piece_type"`
	Name         string                `json:"name"`
	Attributes   PieceAttributes       `json:"attributes"`
	StyleTags    []string              `json:"style_tags"`
	OccasionTags []string              `json:"occasion_tags"`
	Seasonality  []string              `json:"seasonality"`
	BoundingBox  *wardrobe.BoundingBox `json:"bounding_box"`
}

// replyLookMeta shadows look_id so whatever the analyzer sends there, even a
// non-UUID value, never reaches LookMeta
type replyLookMeta struct {
	LookMeta
	LookID json.RawMessage `json:"look_id"`
}

type replyBody struct {
	replyPiece
	Pieces   []replyPiece   `json:"pieces"`
	LookMeta *replyLookMeta `json:"look_meta"`
}

// ParseReply turns the analyzer's text reply into a Result. Every piece id
// and the look id are generated here; ids proposed by the analyzer are
// ignored. The cleaned JSON is returned for storage as raw_analysis.
func ParseReply(reply string, captureType CaptureType) (*Result, json.RawMessage, error) {
	cleaned := StripCodeFences(reply)
	if cleaned == "" {
		return nil, nil, ErrEmptyReply
	}

	var body replyBody
	if err := json.Unmarshal([]byte(cleaned), &body); err != nil {
		return nil, nil, shared.ErrAnalysisFailed.WithMessage("Analyzer reply is not valid JSON: " + err.Error())
	}

	pieces := body.Pieces
	if len(pieces) == 0 && body.PieceType != "" {
		pieces = []replyPiece{body.replyPiece}
	}
	if len(pieces) == 0 {
		return nil, nil, shared.ErrAnalysisFailed.WithMessage("Analyzer reply contains no clothing piece")
	}
	if captureType == CaptureTypeSinglePiece {
		pieces = pieces[:1]
	}

	result := &Result{
		CaptureType: captureType,
		Pieces:      make([]ClothingPiece, 0, len(pieces)),
	}
	for _, p := range pieces {
		result.Pieces = append(result.Pieces, normalizePiece(p))
	}

	if captureType == CaptureTypeCompleteLook {
		meta := LookMeta{}
		if body.LookMeta != nil {
			meta = body.LookMeta.LookMeta
		}
		meta.LookID = uuid.New()
		meta.Seasonality = wardrobe.NormalizeSeasonality(meta.Seasonality)
		if meta.LayeringLevel < wardrobe.MinLayeringLevel {
			meta.LayeringLevel = wardrobe.MinLayeringLevel
		}
		if meta.LayeringLevel > wardrobe.MaxLayeringLevel {
			meta.LayeringLevel = wardrobe.MaxLayeringLevel
		}
		result.LookMeta = &meta
	}

	return result, json.RawMessage(cleaned), nil
}

func normalizePiece(p replyPiece) ClothingPiece {
	pieceType := strings.ToLower(strings.TrimSpace(p.PieceType))
	if pieceType == "" {
		pieceType = string(wardrobe.CategoryOther)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = pieceType
	}

	box := p.BoundingBox
	if box != nil && box.Validate() != nil {
		box = nil
	}

	return ClothingPiece{
		PieceID:      uuid.New(),
		PieceType:    pieceType,
		Name:         name,
		Attributes:   p.Attributes,
		StyleTags:    nonNil(p.StyleTags),
		OccasionTags: nonNil(p.OccasionTags),
		Seasonality:  wardrobe.NormalizeSeasonality(p.Seasonality),
		BoundingBox:  box,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
