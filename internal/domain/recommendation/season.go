package recommendation

import (
	"strings"
	"time"

	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// SeasonForMonth returns the northern-hemisphere season of a month
func SeasonForMonth(m time.Month) wardrobe.Season {
	switch m {
	case time.March, time.April, time.May:
		return wardrobe.SeasonSpring
	case time.June, time.July, time.August:
		return wardrobe.SeasonSummer
	case time.September, time.October, time.November:
		return wardrobe.SeasonFall
	default:
		return wardrobe.SeasonWinter
	}
}

// ResolveSeason uses the requested season when valid, otherwise the season of now
func ResolveSeason(requested string, now time.Time) wardrobe.Season {
	s := wardrobe.Season(strings.ToLower(strings.TrimSpace(requested)))
	if s == "autumn" {
		s = wardrobe.SeasonFall
	}
	if s.IsValid() {
		return s
	}
	return SeasonForMonth(now.Month())
}
