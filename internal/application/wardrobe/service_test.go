package wardrobe

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

type fixture struct {
	items    *MockClothingItemRepository
	looks    *MockOutfitLookRepository
	analyses *MockAnalysisRepository
	events   *MockEventPublisher
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		items:    new(MockClothingItemRepository),
		looks:    new(MockOutfitLookRepository),
		analyses: new(MockAnalysisRepository),
		events:   new(MockEventPublisher),
	}
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = NewService(f.items, f.looks, f.analyses, WithEventPublisher(f.events))
	return f
}

func strPtr(s string) *string { return &s }

func newItem(t *testing.T, userID uuid.UUID, pieceType string) *wardrobe.ClothingItem {
	t.Helper()
	item, err := wardrobe.NewClothingItem(userID, wardrobe.ItemSpec{PieceType: pieceType, Name: "Pièce " + pieceType})
	require.NoError(t, err)
	item.PullEvents()
	return item
}

func completedAnalysis(t *testing.T, userID uuid.UUID) *analysis.OutfitAnalysis {
	t.Helper()
	a, err := analysis.NewOutfitAnalysis(userID, analysis.CaptureTypeSinglePiece)
	require.NoError(t, err)
	require.NoError(t, a.StartProcessing())
	require.NoError(t, a.Complete(&analysis.Result{
		CaptureType: analysis.CaptureTypeSinglePiece,
		Pieces:      []analysis.ClothingPiece{{PieceID: uuid.New(), PieceType: "tshirt"}},
	}, "gpt-4o", nil, time.Second))
	return a
}

func TestSaveAnalysis_SinglePiece(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	pieceID := uuid.New()
	a := completedAnalysis(t, userID)

	f.items.On("ExistingIDs", mock.Anything, []uuid.UUID{pieceID}).Return([]uuid.UUID{}, nil)
	f.items.On("Save", mock.Anything, mock.MatchedBy(func(i *wardrobe.ClothingItem) bool {
		return i.ID == pieceID && i.PieceType == "tshirt" && i.Name == "tshirt" && i.ImageURL == "https://img/1.jpg"
	})).Return(nil)
	f.analyses.On("FindByID", mock.Anything, a.ID).Return(a, nil)
	f.analyses.On("Save", mock.Anything, a).Return(nil)

	resp, err := f.svc.SaveAnalysis(context.Background(), SaveAnalysisRequest{
		UserID: userID,
		AnalysisResult: analysis.Result{
			CaptureType: analysis.CaptureTypeSinglePiece,
			Pieces:      []analysis.ClothingPiece{{PieceID: pieceID, PieceType: "tshirt"}},
		},
		ImageURLs:  []string{"https://img/1.jpg", "https://img/2.jpg"},
		AnalysisID: &a.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.PieceID)
	assert.Equal(t, pieceID, *resp.PieceID)
	assert.Nil(t, resp.LookID)
	require.NotNil(t, a.CreatedItemID)
	assert.Equal(t, pieceID, *a.CreatedItemID)
	f.items.AssertExpectations(t)
	f.analyses.AssertExpectations(t)
}

func TestSaveAnalysis_SinglePieceAlreadyStored(t *testing.T) {
	f := newFixture()
	pieceID := uuid.New()
	f.items.On("ExistingIDs", mock.Anything, []uuid.UUID{pieceID}).Return([]uuid.UUID{pieceID}, nil)

	resp, err := f.svc.SaveAnalysis(context.Background(), SaveAnalysisRequest{
		UserID: uuid.New(),
		AnalysisResult: analysis.Result{
			CaptureType: analysis.CaptureTypeSinglePiece,
			Pieces:      []analysis.ClothingPiece{{PieceID: pieceID, PieceType: "jeans"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, pieceID, *resp.PieceID)
	f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaveAnalysis_CompleteLook(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	known, fresh1, fresh2 := uuid.New(), uuid.New(), uuid.New()
	lookID := uuid.New()
	box := &wardrobe.BoundingBox{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.4}

	f.items.On("ExistingIDs", mock.Anything, []uuid.UUID{fresh1, known, fresh2}).Return([]uuid.UUID{known}, nil)

	var saved *wardrobe.OutfitLook
	var created []*wardrobe.ClothingItem
	f.looks.On("SaveWithItems", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*wardrobe.OutfitLook)
		created = args.Get(2).([]*wardrobe.ClothingItem)
	}).Return(nil)

	resp, err := f.svc.SaveAnalysis(context.Background(), SaveAnalysisRequest{
		UserID: userID,
		AnalysisResult: analysis.Result{
			CaptureType: analysis.CaptureTypeCompleteLook,
			Pieces: []analysis.ClothingPiece{
				{PieceID: fresh1, PieceType: "shirt", BoundingBox: box},
				{PieceID: known, PieceType: "jeans"},
				{PieceID: fresh2, PieceType: "boots"},
			},
			LookMeta: &analysis.LookMeta{LookID: lookID, DominantStyle: []string{"casual"}, LayeringLevel: 2},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, lookID, saved.ID)
	assert.Equal(t, "Look casual", saved.Name)
	require.Len(t, saved.Items, 3)
	for i, li := range saved.Items {
		assert.Equal(t, i, li.Position)
	}
	assert.Equal(t, []uuid.UUID{fresh1, known, fresh2}, saved.ItemIDs())
	assert.Equal(t, box, saved.Items[0].BoundingBox)

	require.Len(t, created, 2)
	assert.Equal(t, fresh1, created[0].ID)
	assert.Equal(t, fresh2, created[1].ID)

	assert.Equal(t, lookID, *resp.LookID)
	assert.Equal(t, []uuid.UUID{fresh1, known, fresh2}, resp.PieceIDs)
}

func TestSaveAnalysis_Invalid(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SaveAnalysis(context.Background(), SaveAnalysisRequest{
		UserID:         uuid.New(),
		AnalysisResult: analysis.Result{CaptureType: analysis.CaptureTypeSinglePiece},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.svc.SaveAnalysis(context.Background(), SaveAnalysisRequest{
		AnalysisResult: analysis.Result{CaptureType: analysis.CaptureTypeSinglePiece},
	})
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_USER_ID", de.Code)
}

func TestListPieces(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	items := []wardrobe.ClothingItem{
		*newItem(t, userID, "tshirt"),
		*newItem(t, userID, "jeans"),
		*newItem(t, userID, "sweater"),
	}
	f.items.On("FindActiveByUser", mock.Anything, userID, wardrobe.ItemFilter{Category: wardrobe.CategoryTop}).
		Return(items, nil)

	resp, err := f.svc.ListPieces(context.Background(), userID, PieceListFilter{Category: "top"})
	require.NoError(t, err)
	require.Len(t, resp.Pieces, 3)
	assert.Equal(t, "Hauts", resp.Pieces[0].CategoryLabel)
	assert.Equal(t, []CategoryCount{
		{Category: "top", Label: "Hauts", Count: 2},
		{Category: "bottom", Label: "Bas", Count: 1},
	}, resp.Categories)

	_, err = f.svc.ListPieces(context.Background(), userID, PieceListFilter{Category: "hats"})
	require.Error(t, err)
}

func TestListLooks_PiecesInPositionOrder(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	look, err := wardrobe.NewOutfitLook(userID, wardrobe.LookSpec{})
	require.NoError(t, err)
	a, b := newItem(t, userID, "shirt"), newItem(t, userID, "pants")
	look.Items = []wardrobe.LookItem{
		{LookID: look.ID, ItemID: b.ID, Position: 1, Item: b},
		{LookID: look.ID, ItemID: a.ID, Position: 0, Item: a},
	}
	f.looks.On("FindByUser", mock.Anything, userID).Return([]wardrobe.OutfitLook{*look}, nil)

	looks, err := f.svc.ListLooks(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, looks, 1)
	require.Len(t, looks[0].Pieces, 2)
	assert.Equal(t, a.ID, looks[0].Pieces[0].ID)
	assert.Equal(t, "shirt", looks[0].Pieces[0].PieceType)
	assert.Equal(t, "Look", looks[0].Name)
}

func TestUpdateItem_PartialUpdate(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	item := newItem(t, userID, "shirt")
	item.Material = "coton"
	item.Brand = "Acme"

	f.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.items.On("Save", mock.Anything, item).Return(nil)

	resp, err := f.svc.UpdateItem(context.Background(), uuid.Nil, item.ID, UpdateItemRequest{Name: strPtr("Chemise blanche")})
	require.NoError(t, err)
	assert.Equal(t, "Chemise blanche", resp.Name)
	assert.Equal(t, "coton", resp.Material)
	assert.Equal(t, "Acme", resp.Brand)
}

func TestUpdateItem_Errors(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	item := newItem(t, owner, "shirt")
	missing := uuid.New()

	f.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.items.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	_, err := f.svc.UpdateItem(context.Background(), uuid.Nil, missing, UpdateItemRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.svc.UpdateItem(context.Background(), uuid.New(), item.ID, UpdateItemRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, shared.ErrNotFound, "another user's item is hidden")

	_, err = f.svc.UpdateItem(context.Background(), owner, item.ID, UpdateItemRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDeleteItem_SoftDelete(t *testing.T) {
	f := newFixture()
	item := newItem(t, uuid.New(), "coat")
	f.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.items.On("Save", mock.Anything, item).Return(nil)

	require.NoError(t, f.svc.DeleteItem(context.Background(), item.UserID, item.ID))
	assert.False(t, item.IsActive)
	f.events.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture()
	item := newItem(t, uuid.New(), "bag")
	f.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.items.On("Save", mock.Anything, item).Return(nil)

	resp, err := f.svc.ToggleFavorite(context.Background(), uuid.Nil, item.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsFavorite)

	resp, err = f.svc.ToggleFavorite(context.Background(), uuid.Nil, item.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsFavorite)
}

func TestRecordWear(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()

	f.items.On("RecordWear", mock.Anything, []uuid.UUID{a}, at).Return(int64(1), nil).Once()
	require.NoError(t, f.svc.RecordWear(context.Background(), userID, []uuid.UUID{a}, at))
	f.looks.AssertNotCalled(t, "RecordWear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	f.items.On("RecordWear", mock.Anything, []uuid.UUID{a, b}, at).Return(int64(2), nil).Once()
	f.looks.On("RecordWear", mock.Anything, userID, []uuid.UUID{a, b}, at).Return(int64(1), nil).Once()
	require.NoError(t, f.svc.RecordWear(context.Background(), userID, []uuid.UUID{a, b}, at))
	f.looks.AssertExpectations(t)
}

func TestOutfitWornHandler(t *testing.T) {
	f := newFixture()
	handler := NewOutfitWornHandler(f.svc, zap.NewNop())
	assert.Equal(t, []string{recommendation.EventTypeOutfitWorn}, handler.EventTypes())

	userID := uuid.New()
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	at := time.Now()
	combo := recommendation.BuildComboID([]string{b.String(), a.String()})

	f.items.On("RecordWear", mock.Anything, []uuid.UUID{a, b}, at).Return(int64(2), nil)
	f.looks.On("RecordWear", mock.Anything, userID, []uuid.UUID{a, b}, at).Return(int64(0), nil)

	require.NoError(t, handler.Handle(context.Background(), recommendation.NewOutfitWornEvent(userID, combo, at)))
	f.items.AssertExpectations(t)

	// Client-side ids that are not UUIDs are ignored.
	require.NoError(t, handler.Handle(context.Background(), recommendation.NewOutfitWornEvent(userID, "local-42", at)))
}
