package recommendation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// StylistRequest carries everything the stylist needs to pick today's outfit
type StylistRequest struct {
	City       string
	Weather    Weather
	Season     wardrobe.Season
	UserNeeds  string
	Exclusions Exclusions
	Wardrobe   []Piece
}

// Stylist is the language model behind recommendations
type Stylist interface {
	// Recommend proposes item or combo ids for the day
	Recommend(ctx context.Context, req StylistRequest) ([]Suggestion, error)

	// MatchOutfit describes the best combinations for item among wardrobe
	MatchOutfit(ctx context.Context, item map[string]any, wardrobe []map[string]any) (string, error)

	// Suggest proposes outfits from free-form preferences
	Suggest(ctx context.Context, preferences map[string]any) (string, error)
}

// WeatherProvider returns the current weather of a city
type WeatherProvider interface {
	Current(ctx context.Context, city, countryCode string) (*Weather, error)
}

// ErrEmptyStylistReply is returned when the stylist answered with no content
var ErrEmptyStylistReply = shared.ErrUpstreamUnavailable.WithMessage("Stylist returned an empty reply")

type stylistReply struct {
	Recommendations []struct {
		ID                string          `json:"id"`
		Score             json.RawMessage `json:"score"`
		Reason            string          `json:"reason"`
		WeatherAdaptation string          `json:"weather_adaptation"`
		StyleTips         string          `json:"style_tips"`
	} `json:"recommendations"`
}

// ParseStylistReply reads the JSON answer of the stylist, tolerating a
// surrounding ```json fence. Scores outside [0,100] or not numeric are dropped.
func ParseStylistReply(reply string) ([]Suggestion, error) {
	cleaned := stripFence(reply)
	if cleaned == "" {
		return nil, ErrEmptyStylistReply
	}

	var body stylistReply
	if err := json.Unmarshal([]byte(cleaned), &body); err != nil {
		return nil, shared.ErrUpstreamUnavailable.WithMessage("Stylist reply is not valid JSON: " + err.Error())
	}

	out := make([]Suggestion, 0, len(body.Recommendations))
	for _, r := range body.Recommendations {
		if strings.TrimSpace(r.ID) == "" {
			continue
		}
		s := Suggestion{
			ID:                strings.TrimSpace(r.ID),
			Reason:            r.Reason,
			WeatherAdaptation: r.WeatherAdaptation,
			StyleTips:         r.StyleTips,
		}
		var score float64
		if len(r.Score) > 0 && json.Unmarshal(r.Score, &score) == nil && score >= MinScore && score <= MaxScore {
			s.Score = &score
		}
		out = append(out, s)
	}
	return out, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
