package persistence

import (
	"slices"
	"strings"

	"github.com/wardrobe/backend/internal/domain/shared"
)

// analysisSortColumns are the columns a client may order analyses by
var analysisSortColumns = []string{"created_at", "updated_at", "analyzed_at", "processing_status", "capture_type", "duration_ms"}

// orderClause builds an ORDER BY expression from f. Only whitelisted columns
// reach the query; anything else orders by fallback.
func orderClause(f shared.Filter, allowed []string, fallback string) string {
	column := strings.TrimSpace(f.SortBy)
	if !slices.Contains(allowed, column) {
		column = fallback
	}
	if f.Ascending {
		return column + " ASC"
	}
	return column + " DESC"
}
