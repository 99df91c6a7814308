package recommendation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ComboPrefix starts every combination identifier
const ComboPrefix = "combo-"

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// IsComboID reports whether id names a combination of items
func IsComboID(id string) bool {
	return strings.HasPrefix(id, ComboPrefix)
}

// BuildComboID builds the canonical combination id: the member ids sorted
// ascending, deduplicated and joined with '-'.
func BuildComboID(itemIDs []string) string {
	ids := make([]string, 0, len(itemIDs))
	seen := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ComboPrefix + strings.Join(ids, "-")
}

// ParseComboID extracts the member item ids of a combination. UUIDs contain
// dashes themselves, so members are found by pattern rather than by split.
func ParseComboID(id string) []string {
	if !IsComboID(id) {
		return nil
	}
	return uuidPattern.FindAllString(strings.ToLower(strings.TrimPrefix(id, ComboPrefix)), -1)
}

// CanonicalID normalizes a recommendation id so combos listing the same
// members in another order compare equal.
func CanonicalID(id string) string {
	if !IsComboID(id) {
		return strings.ToLower(strings.TrimSpace(id))
	}
	members := ParseComboID(id)
	if len(members) == 0 {
		return id
	}
	return BuildComboID(members)
}

// MemberIDs returns the item ids a recommendation id refers to
func MemberIDs(id string) []string {
	if IsComboID(id) {
		return ParseComboID(id)
	}
	return []string{strings.ToLower(strings.TrimSpace(id))}
}

// ParseItemUUIDs converts item id strings to UUIDs, skipping invalid ones
func ParseItemUUIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			out = append(out, u)
		}
	}
	return out
}
