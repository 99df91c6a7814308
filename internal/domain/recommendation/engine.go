package recommendation

import (
	"strings"
)

// ComboName is the display name of a multi-piece recommendation
const ComboName = "Ensemble recommandé"

// FallbackCount is how many wardrobe items are suggested when the stylist fails
const FallbackCount = 3

// Suggestion is one raw proposal from the stylist: an item id or a combo id
type Suggestion struct {
	ID                string
	Score             *float64
	Reason            string
	WeatherAdaptation string
	StyleTips         string
}

// Exclusions holds the ids the user should not see again too soon
type Exclusions struct {
	RecentlyWornIDs           []string
	RecentlyRecommendedIDs    []string
	RecentlyRecommendedCombos []string
}

// Merge returns the union of both exclusion lists without duplicates
func (e Exclusions) Merge(other Exclusions) Exclusions {
	return Exclusions{
		RecentlyWornIDs:           unionIDs(e.RecentlyWornIDs, other.RecentlyWornIDs),
		RecentlyRecommendedIDs:    unionIDs(e.RecentlyRecommendedIDs, other.RecentlyRecommendedIDs),
		RecentlyRecommendedCombos: unionIDs(e.RecentlyRecommendedCombos, other.RecentlyRecommendedCombos),
	}
}

// ExclusionsFromRecords derives recently recommended ids and combos from tracking rows
func ExclusionsFromRecords(records []Record) Exclusions {
	var ex Exclusions
	for _, r := range records {
		if IsComboID(r.RecommendationID) {
			ex.RecentlyRecommendedCombos = append(ex.RecentlyRecommendedCombos, r.RecommendationID)
		} else {
			ex.RecentlyRecommendedIDs = append(ex.RecentlyRecommendedIDs, r.RecommendationID)
		}
	}
	return ex.Merge(Exclusions{})
}

func unionIDs(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			key := CanonicalID(id)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// Candidate is a suggestion annotated with its freshness
type Candidate struct {
	Suggestion
	ItemIDs                []string
	WasRecentlyRecommended bool
	WasRecentlyWorn        bool
}

// IsFresh reports whether the candidate was neither recommended nor worn recently
func (c Candidate) IsFresh() bool {
	return !c.WasRecentlyRecommended && !c.WasRecentlyWorn
}

// Prioritize flags every suggestion against the exclusions and orders them
// fresh first, stale after, keeping the stylist's order within each group.
// Duplicate suggestions are collapsed onto their first occurrence.
func Prioritize(suggestions []Suggestion, ex Exclusions) []Candidate {
	recentItems := toSet(ex.RecentlyRecommendedIDs)
	recentCombos := toSet(ex.RecentlyRecommendedCombos)
	worn := toSet(ex.RecentlyWornIDs)

	fresh := make([]Candidate, 0, len(suggestions))
	stale := make([]Candidate, 0)
	seen := make(map[string]bool, len(suggestions))

	for _, s := range suggestions {
		id := CanonicalID(s.ID)
		if id == "" || id == ComboPrefix || seen[id] {
			continue
		}
		seen[id] = true

		c := Candidate{Suggestion: s, ItemIDs: MemberIDs(id)}
		c.ID = id
		if IsComboID(id) {
			c.WasRecentlyRecommended = recentCombos[id]
		} else {
			c.WasRecentlyRecommended = recentItems[id]
		}
		c.WasRecentlyWorn = worn[id] || allIn(c.ItemIDs, worn)

		if c.IsFresh() {
			fresh = append(fresh, c)
		} else {
			stale = append(stale, c)
		}
	}

	return append(fresh, stale...)
}

// Recommendation is a candidate resolved against the wardrobe
type Recommendation struct {
	ID                     string
	Type                   Type
	Name                   string
	Pieces                 []Piece
	Score                  *float64
	Reason                 string
	WeatherAdaptation      string
	StyleTips              string
	WasRecentlyRecommended bool
	WasRecentlyWorn        bool
	Fallback               bool
}

// ItemIDs returns the ids of the recommended pieces
func (r Recommendation) ItemIDs() []string {
	ids := make([]string, len(r.Pieces))
	for i, p := range r.Pieces {
		ids[i] = p.ID
	}
	return ids
}

// DropReason explains why a candidate was discarded during resolution
type DropReason string

const (
	DropUnknownItem   DropReason = "unknown_item"
	DropEmptyCombo    DropReason = "empty_combo"
	DropWeatherUnsafe DropReason = "weather_unsuitable"
)

// Resolve maps candidates back to wardrobe pieces and applies the weather
// rule. Single ids missing from the wardrobe are dropped, combos keep their
// resolvable members and are dropped when none resolve. A recommendation
// with any piece unsuitable for the temperature is dropped. onDrop, when
// set, is told about each discarded candidate.
func Resolve(candidates []Candidate, wardrobe []Piece, temperature float64, onDrop func(id string, reason DropReason)) []Recommendation {
	idx := IndexPieces(wardrobe)
	drop := func(id string, reason DropReason) {
		if onDrop != nil {
			onDrop(id, reason)
		}
	}

	out := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		pieces := make([]Piece, 0, len(c.ItemIDs))
		for _, id := range c.ItemIDs {
			if p, ok := idx[strings.ToLower(id)]; ok {
				pieces = append(pieces, p)
			}
		}

		combo := IsComboID(c.ID)
		if len(pieces) == 0 {
			if combo {
				drop(c.ID, DropEmptyCombo)
			} else {
				drop(c.ID, DropUnknownItem)
			}
			continue
		}

		suitable := true
		for _, p := range pieces {
			if !IsWeatherAppropriate(p, temperature) {
				suitable = false
				break
			}
		}
		if !suitable {
			drop(c.ID, DropWeatherUnsafe)
			continue
		}

		rec := Recommendation{
			ID:                     c.ID,
			Type:                   InferType(c.ID, pieces),
			Pieces:                 pieces,
			Score:                  c.Score,
			Reason:                 c.Reason,
			WeatherAdaptation:      c.WeatherAdaptation,
			StyleTips:              c.StyleTips,
			WasRecentlyRecommended: c.WasRecentlyRecommended,
			WasRecentlyWorn:        c.WasRecentlyWorn,
		}
		if combo {
			rec.Name = ComboName
		} else {
			rec.Name = pieces[0].Name
		}
		out = append(out, rec)
	}
	return out
}

// Limit truncates the list to at most n recommendations. n <= 0 keeps one.
func Limit(recs []Recommendation, n int) []Recommendation {
	if n <= 0 {
		n = 1
	}
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}

// Fallback recommends the first FallbackCount wardrobe pieces, one per recommendation
func Fallback(wardrobe []Piece) []Recommendation {
	n := FallbackCount
	if len(wardrobe) < n {
		n = len(wardrobe)
	}
	out := make([]Recommendation, 0, n)
	for _, p := range wardrobe[:n] {
		out = append(out, Recommendation{
			ID:       p.ID,
			Type:     InferType(p.ID, []Piece{p}),
			Name:     p.Name,
			Pieces:   []Piece{p},
			Fallback: true,
		})
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[CanonicalID(id)] = true
	}
	return set
}

func allIn(ids []string, set map[string]bool) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}
