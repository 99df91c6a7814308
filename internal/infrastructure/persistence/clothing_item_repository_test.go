package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newItem(t *testing.T, userID uuid.UUID, pieceType string) *wardrobe.ClothingItem {
	t.Helper()
	item, err := wardrobe.NewClothingItem(userID, wardrobe.ItemSpec{
		PieceType:   pieceType,
		Colors:      wardrobe.Colors{Primary: []string{"navy"}},
		Material:    "cotton",
		StyleTags:   []string{"casual"},
		Seasonality: []string{"spring"},
	})
	require.NoError(t, err)
	return item
}

func TestGormClothingItemRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClothingItemRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	item := newItem(t, userID, "shirt")
	require.NoError(t, repo.Save(ctx, item))

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, userID, found.UserID)
	assert.Equal(t, "shirt", found.PieceType)
	assert.Equal(t, []string{"navy"}, found.Colors.Primary)
	assert.Equal(t, wardrobe.StringList{"casual"}, found.StyleTags)
	assert.Equal(t, wardrobe.StringList{}, found.Details)
	assert.True(t, found.IsActive)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormClothingItemRepository_FindActiveByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClothingItemRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	shirt := newItem(t, userID, "shirt")
	jeans := newItem(t, userID, "jeans")
	jeans.CreatedAt = shirt.CreatedAt.Add(time.Second)
	cape := newItem(t, userID, "cape")
	cape.CreatedAt = shirt.CreatedAt.Add(2 * time.Second)
	_, err := cape.ToggleFavorite()
	require.NoError(t, err)
	deleted := newItem(t, userID, "shirt")
	require.NoError(t, deleted.Deactivate())
	foreign := newItem(t, uuid.New(), "shirt")

	for _, it := range []*wardrobe.ClothingItem{shirt, jeans, cape, deleted, foreign} {
		require.NoError(t, repo.Save(ctx, it))
	}

	t.Run("lists active items newest first", func(t *testing.T) {
		items, err := repo.FindActiveByUser(ctx, userID, wardrobe.ItemFilter{})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, cape.ID, items[0].ID)
		assert.Equal(t, shirt.ID, items[2].ID)
	})

	t.Run("filters by category", func(t *testing.T) {
		items, err := repo.FindActiveByUser(ctx, userID, wardrobe.ItemFilter{Category: wardrobe.CategoryBottom})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, jeans.ID, items[0].ID)
	})

	t.Run("other category matches unknown piece types", func(t *testing.T) {
		items, err := repo.FindActiveByUser(ctx, userID, wardrobe.ItemFilter{Category: wardrobe.CategoryOther})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, cape.ID, items[0].ID)
	})

	t.Run("filters favorites and piece type", func(t *testing.T) {
		items, err := repo.FindActiveByUser(ctx, userID, wardrobe.ItemFilter{FavoritesOnly: true})
		require.NoError(t, err)
		require.Len(t, items, 1)

		items, err = repo.FindActiveByUser(ctx, userID, wardrobe.ItemFilter{PieceType: "shirt"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, shirt.ID, items[0].ID)
	})

	t.Run("FindByIDs skips inactive items", func(t *testing.T) {
		items, err := repo.FindByIDs(ctx, []uuid.UUID{shirt.ID, deleted.ID})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, shirt.ID, items[0].ID)
	})

	t.Run("ExistingIDs includes inactive items", func(t *testing.T) {
		ids, err := repo.ExistingIDs(ctx, []uuid.UUID{deleted.ID, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{deleted.ID}, ids)
	})
}

func TestGormClothingItemRepository_RecordWear(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClothingItemRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	a := newItem(t, userID, "shirt")
	b := newItem(t, userID, "jeans")
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	later := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	earlier := later.Add(-48 * time.Hour)

	n, err := repo.RecordWear(ctx, []uuid.UUID{a.ID, b.ID}, later)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.RecordWear(ctx, []uuid.UUID{a.ID}, earlier)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.WearCount)
	require.NotNil(t, found.LastWornAt)
	assert.True(t, found.LastWornAt.Equal(later))

	n, err = repo.RecordWear(ctx, nil, later)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGormClothingItemRepository_FindByID_Postgres(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	repo := NewGormClothingItemRepository(gormDB)

	id := uuid.New()
	userID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "piece_type", "name", "colors", "style_tags", "is_active", "is_favorite",
		"wear_count", "created_at", "updated_at", "version",
	}).AddRow(
		id.String(), userID.String(), "coat", "Trench", `{"primary":["beige"],"secondary":[]}`, `["classic"]`, true, false,
		3, now, now, 2,
	)

	mock.ExpectQuery(`SELECT \* FROM "clothing_items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnRows(rows)

	item, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Trench", item.Name)
	assert.Equal(t, wardrobe.CategoryOuterwear, item.Category())
	assert.Equal(t, []string{"beige"}, item.Colors.Primary)
	assert.Equal(t, 3, item.WearCount)
	assert.Equal(t, 2, item.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
