package recommendation

import (
	"context"
	"sort"
	"time"
)

const (
	// WearHistoryRetention is how long wear entries are kept
	WearHistoryRetention = 30 * 24 * time.Hour
	// RecentlyWornWindow is the window in which an item counts as recently worn
	RecentlyWornWindow = 7 * 24 * time.Hour
)

// WearEntry records that an item (or combination) was worn at a given time
type WearEntry struct {
	ItemID string    `json:"item_id"`
	WornAt time.Time `json:"worn_at"`
}

// WearHistory is the wear log of one user
type WearHistory struct {
	Entries []WearEntry
}

// NewWearHistory builds a history from entries, dropping those older than
// the retention period
func NewWearHistory(entries []WearEntry, now time.Time) *WearHistory {
	h := &WearHistory{Entries: append([]WearEntry(nil), entries...)}
	h.Prune(now)
	return h
}

// Add appends an entry
func (h *WearHistory) Add(itemID string, at time.Time) {
	h.Entries = append(h.Entries, WearEntry{ItemID: itemID, WornAt: at})
}

// Prune drops entries older than the retention period and sorts the rest,
// newest first
func (h *WearHistory) Prune(now time.Time) {
	cutoff := now.Add(-WearHistoryRetention)
	kept := h.Entries[:0]
	for _, e := range h.Entries {
		if !e.WornAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	h.Entries = kept
	sort.SliceStable(h.Entries, func(a, b int) bool {
		return h.Entries[a].WornAt.After(h.Entries[b].WornAt)
	})
}

// RecentlyWornIDs returns the distinct ids worn within RecentlyWornWindow,
// most recent first
func (h *WearHistory) RecentlyWornIDs(now time.Time) []string {
	cutoff := now.Add(-RecentlyWornWindow)
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, e := range h.Entries {
		if e.WornAt.Before(cutoff) || e.WornAt.After(now) || seen[e.ItemID] {
			continue
		}
		seen[e.ItemID] = true
		ids = append(ids, e.ItemID)
	}
	return ids
}

// WornEntries expands a mark-worn request into wear entries: the id itself,
// plus every member item when id is a combination
func WornEntries(id string, at time.Time) []WearEntry {
	entries := []WearEntry{{ItemID: id, WornAt: at}}
	if IsComboID(id) {
		for _, member := range ParseComboID(id) {
			entries = append(entries, WearEntry{ItemID: member, WornAt: at})
		}
	}
	return entries
}

// WearHistoryStore keeps the wear log of every user
type WearHistoryStore interface {
	// Append stores entries for a user
	Append(ctx context.Context, userID string, entries ...WearEntry) error

	// List returns the entries of a user worn at or after since, newest first
	List(ctx context.Context, userID string, since time.Time) ([]WearEntry, error)

	// Prune removes the entries of a user worn before cutoff
	Prune(ctx context.Context, userID string, cutoff time.Time) error
}
