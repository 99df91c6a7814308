package wardrobe

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe/backend/internal/domain/shared"
)

func strPtr(s string) *string { return &s }

func newTestItem(t *testing.T) *ClothingItem {
	t.Helper()
	item, err := NewClothingItem(uuid.New(), ItemSpec{
		PieceType:   "Jeans",
		Colors:      Colors{Primary: []string{"blue"}},
		Material:    "denim",
		Seasonality: []string{"spring", "autumn", "monsoon", "spring"},
		StyleTags:   []string{"casual", " "},
	})
	require.NoError(t, err)
	return item
}

func TestNewClothingItem(t *testing.T) {
	t.Run("defaults name to piece type", func(t *testing.T) {
		item := newTestItem(t)

		assert.Equal(t, "jeans", item.PieceType)
		assert.Equal(t, "jeans", item.Name)
		assert.Equal(t, CategoryBottom, item.Category())
		assert.True(t, item.IsActive)
		assert.Equal(t, 0, item.WearCount)
		assert.Equal(t, StringList{"spring", "fall"}, item.Seasonality)
		assert.Equal(t, StringList{"casual"}, item.StyleTags)
		assert.Equal(t, []string{}, item.Colors.Secondary)
	})

	t.Run("keeps provided id and emits created event", func(t *testing.T) {
		id := uuid.New()
		item, err := NewClothingItem(uuid.New(), ItemSpec{ID: id, PieceType: "coat", Name: "Trench"})
		require.NoError(t, err)

		assert.Equal(t, id, item.ID)
		assert.Equal(t, "Trench", item.Name)
		events := item.PendingEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeClothingItemCreated, events[0].EventType())
		assert.Equal(t, id, events[0].AggregateID())
	})

	t.Run("rejects missing user", func(t *testing.T) {
		_, err := NewClothingItem(uuid.Nil, ItemSpec{PieceType: "shirt"})
		require.Error(t, err)
		assert.Equal(t, "INVALID_USER_ID", err.(*shared.DomainError).Code)
	})

	t.Run("rejects empty piece type", func(t *testing.T) {
		_, err := NewClothingItem(uuid.New(), ItemSpec{PieceType: "  "})
		require.Error(t, err)
		assert.Equal(t, "INVALID_PIECE_TYPE", err.(*shared.DomainError).Code)
	})
}

func TestClothingItem_ApplyUpdate(t *testing.T) {
	t.Run("only provided fields change", func(t *testing.T) {
		item := newTestItem(t)
		version := item.Version

		err := item.ApplyUpdate(ItemUpdate{Name: strPtr("Mon jean"), Brand: strPtr("Levi's")})
		require.NoError(t, err)

		assert.Equal(t, "Mon jean", item.Name)
		assert.Equal(t, "Levi's", item.Brand)
		assert.Equal(t, "denim", item.Material)
		assert.Equal(t, "jeans", item.PieceType)
		assert.Equal(t, []string{"blue"}, item.Colors.Primary)
		assert.Equal(t, version+1, item.Version)
	})

	t.Run("replaces lists when provided", func(t *testing.T) {
		item := newTestItem(t)
		seasons := []string{"winter"}

		require.NoError(t, item.ApplyUpdate(ItemUpdate{Seasonality: &seasons}))
		assert.Equal(t, StringList{"winter"}, item.Seasonality)
	})

	t.Run("rejects empty update", func(t *testing.T) {
		item := newTestItem(t)
		assert.Error(t, item.ApplyUpdate(ItemUpdate{}))
	})

	t.Run("rejects blank name", func(t *testing.T) {
		item := newTestItem(t)
		err := item.ApplyUpdate(ItemUpdate{Name: strPtr(" ")})
		require.Error(t, err)
		assert.Equal(t, "jeans", item.Name)
	})

	t.Run("rejects update of deleted item", func(t *testing.T) {
		item := newTestItem(t)
		require.NoError(t, item.Deactivate())
		assert.Error(t, item.ApplyUpdate(ItemUpdate{Notes: strPtr("x")}))
	})
}

func TestClothingItem_Deactivate(t *testing.T) {
	item := newTestItem(t)
	item.PullEvents()

	require.NoError(t, item.Deactivate())
	assert.False(t, item.IsActive)
	require.Len(t, item.PendingEvents(), 1)
	assert.Equal(t, EventTypeClothingItemDeleted, item.PendingEvents()[0].EventType())

	assert.Error(t, item.Deactivate())
}

func TestClothingItem_ToggleFavorite(t *testing.T) {
	item := newTestItem(t)

	fav, err := item.ToggleFavorite()
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = item.ToggleFavorite()
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestClothingItem_RecordWear(t *testing.T) {
	item := newTestItem(t)
	now := time.Now()

	item.RecordWear(now)
	item.RecordWear(now.Add(-48 * time.Hour))

	assert.Equal(t, 2, item.WearCount)
	require.NotNil(t, item.LastWornAt)
	assert.True(t, item.LastWornAt.Equal(now))
}
