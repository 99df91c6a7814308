package recommendation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWearHistory_Prune(t *testing.T) {
	now := time.Now()
	h := NewWearHistory([]WearEntry{
		{ItemID: "old", WornAt: now.Add(-31 * 24 * time.Hour)},
		{ItemID: "a", WornAt: now.Add(-10 * 24 * time.Hour)},
		{ItemID: "b", WornAt: now.Add(-1 * time.Hour)},
	}, now)

	require.Len(t, h.Entries, 2)
	assert.Equal(t, "b", h.Entries[0].ItemID)
	assert.Equal(t, "a", h.Entries[1].ItemID)
}

func TestWearHistory_RecentlyWornIDs(t *testing.T) {
	now := time.Now()
	h := NewWearHistory(nil, now)
	h.Add("a", now.Add(-2*24*time.Hour))
	h.Add("b", now.Add(-8*24*time.Hour))
	h.Add("c", now.Add(-6*24*time.Hour))
	h.Add("a", now.Add(-1*time.Hour))
	h.Prune(now)

	assert.Equal(t, []string{"a", "c"}, h.RecentlyWornIDs(now))
}

func TestWearHistory_BoundaryOfWindow(t *testing.T) {
	now := time.Now()
	h := NewWearHistory([]WearEntry{
		{ItemID: "edge", WornAt: now.Add(-RecentlyWornWindow)},
		{ItemID: "outside", WornAt: now.Add(-RecentlyWornWindow - time.Second)},
	}, now)

	assert.Equal(t, []string{"edge"}, h.RecentlyWornIDs(now))
}

func TestWornEntries(t *testing.T) {
	at := time.Now()

	t.Run("single item", func(t *testing.T) {
		entries := WornEntries(idA, at)
		require.Len(t, entries, 1)
		assert.Equal(t, idA, entries[0].ItemID)
	})

	t.Run("combo also marks members", func(t *testing.T) {
		combo := BuildComboID([]string{idA, idB})
		entries := WornEntries(combo, at)
		require.Len(t, entries, 3)
		assert.Equal(t, combo, entries[0].ItemID)
		assert.Equal(t, idA, entries[1].ItemID)
		assert.Equal(t, idB, entries[2].ItemID)
	})
}
