package recommendation

import (
	"math"
	"sort"
)

// MostRecommendedLimit is the number of items listed in Stats.MostRecommended
const MostRecommendedLimit = 5

// ItemCount is how many times an item was recommended
type ItemCount struct {
	ItemID string
	Count  int
}

// Stats summarizes the recommendations made to a user
type Stats struct {
	Total           int
	Worn            int
	WornRate        float64
	ByType          map[Type]int
	MostRecommended []ItemCount
}

// ComputeStats aggregates tracking rows. WornRate is a percentage rounded to
// two decimals.
func ComputeStats(records []Record) Stats {
	stats := Stats{
		ByType:          make(map[Type]int),
		MostRecommended: make([]ItemCount, 0),
	}
	counts := make(map[string]int)

	for _, r := range records {
		stats.Total++
		if r.WasWorn {
			stats.Worn++
		}
		stats.ByType[r.Type]++
		for _, id := range r.ItemIDs {
			counts[id]++
		}
	}

	if stats.Total > 0 {
		rate := float64(stats.Worn) / float64(stats.Total) * 100
		stats.WornRate = math.Round(rate*100) / 100
	}

	for id, c := range counts {
		stats.MostRecommended = append(stats.MostRecommended, ItemCount{ItemID: id, Count: c})
	}
	sort.Slice(stats.MostRecommended, func(a, b int) bool {
		x, y := stats.MostRecommended[a], stats.MostRecommended[b]
		if x.Count != y.Count {
			return x.Count > y.Count
		}
		return x.ItemID < y.ItemID
	})
	if len(stats.MostRecommended) > MostRecommendedLimit {
		stats.MostRecommended = stats.MostRecommended[:MostRecommendedLimit]
	}

	return stats
}
