package persistence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
	"github.com/wardrobe/backend/internal/infrastructure/persistence/models"
)

func completedAnalysis(t *testing.T, userID uuid.UUID) *analysis.OutfitAnalysis {
	t.Helper()
	a, err := analysis.NewOutfitAnalysis(userID, analysis.CaptureTypeCompleteLook)
	require.NoError(t, err)
	require.NoError(t, a.AttachImage("outfits/u/a.jpg", "https://cdn.example.com/outfits/u/a.jpg"))
	require.NoError(t, a.StartProcessing())

	result := &analysis.Result{
		CaptureType: analysis.CaptureTypeCompleteLook,
		Pieces: []analysis.ClothingPiece{
			{
				PieceID:    uuid.New(),
				PieceType:  "shirt",
				Name:       "Chemise blanche",
				Attributes: analysis.PieceAttributes{Colors: wardrobe.Colors{Primary: []string{"white"}}, Material: "linen"},
				StyleTags:  []string{"classic"},
				BoundingBox: &wardrobe.BoundingBox{
					X: 0.2, Y: 0.1, Width: 0.5, Height: 0.4,
				},
			},
			{PieceID: uuid.New(), PieceType: "jeans", Name: "Jean brut"},
		},
		LookMeta: &analysis.LookMeta{LookID: uuid.New(), DominantStyle: []string{"casual"}, LayeringLevel: 1},
	}
	require.NoError(t, a.Complete(result, "gpt-4o", json.RawMessage(`{"pieces":[]}`), 1500*time.Millisecond))
	return a
}

func TestGormAnalysisRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	a := completedAnalysis(t, userID)
	require.NoError(t, repo.Save(ctx, a))

	found, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusCompleted, found.Status)
	assert.Equal(t, "gpt-4o", found.ModelUsed)
	assert.Equal(t, int64(1500), found.DurationMs)
	assert.JSONEq(t, `{"pieces":[]}`, string(found.RawAnalysis))
	require.NotNil(t, found.LookMeta)
	assert.Equal(t, a.LookMeta.LookID, found.LookMeta.LookID)
	require.Len(t, found.Pieces, 2)
	assert.Equal(t, "shirt", found.Pieces[0].PieceType)
	assert.Equal(t, "linen", found.Pieces[0].Attributes.Material)
	require.NotNil(t, found.Pieces[0].BoundingBox)
	assert.Nil(t, found.Pieces[1].BoundingBox)

	result := found.Result()
	assert.Equal(t, a.Pieces[1].ID, result.Pieces[1].PieceID)

	t.Run("saving again replaces pieces", func(t *testing.T) {
		itemID := uuid.New()
		require.NoError(t, a.LinkCreatedItem(itemID))
		a.Pieces = a.Pieces[:1]
		require.NoError(t, repo.Save(ctx, a))

		found, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, found.Pieces, 1)
		require.NotNil(t, found.CreatedItemID)
		assert.Equal(t, itemID, *found.CreatedItemID)
	})

	t.Run("delete removes analysis", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, a.ID))
		_, err := repo.FindByID(ctx, a.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, a.ID), shared.ErrNotFound)
	})
}

func TestGormAnalysisRepository_FindByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, completedAnalysis(t, userID)))
	}
	failed, err := analysis.NewOutfitAnalysis(userID, analysis.CaptureTypeSinglePiece)
	require.NoError(t, err)
	require.NoError(t, failed.Fail("upstream error"))
	require.NoError(t, repo.Save(ctx, failed))

	filter := shared.DefaultFilter()
	filter.PageSize = 2
	list, total, err := repo.FindByUser(ctx, userID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, list, 2)

	filter = shared.DefaultFilter()
	filter.Status = "failed"
	list, total, err = repo.FindByUser(ctx, userID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "upstream error", list[0].ErrorMessage)
}

func TestGormAnalysisRepository_FailStale(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRepository(db)
	ctx := context.Background()

	stuck, err := analysis.NewOutfitAnalysis(uuid.New(), analysis.CaptureTypeSinglePiece)
	require.NoError(t, err)
	require.NoError(t, stuck.StartProcessing())
	require.NoError(t, repo.Save(ctx, stuck))

	done := completedAnalysis(t, uuid.New())
	require.NoError(t, repo.Save(ctx, done))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.OutfitAnalysisModel{}).
		Where("id IN ?", []uuid.UUID{stuck.ID, done.ID}).
		UpdateColumn("updated_at", past).Error)

	n, err := repo.FailStale(ctx, time.Now().Add(-15*time.Minute), "analysis timed out")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, err := repo.FindByID(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusFailed, found.Status)
	assert.Equal(t, "analysis timed out", found.ErrorMessage)
}
