package wardrobe

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// MockClothingItemRepository is a mock implementation of wardrobe.ClothingItemRepository
type MockClothingItemRepository struct {
	mock.Mock
}

func (m *MockClothingItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*wardrobe.ClothingItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobe.ClothingItem), args.Error(1)
}

func (m *MockClothingItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]wardrobe.ClothingItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]wardrobe.ClothingItem), args.Error(1)
}

func (m *MockClothingItemRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, filter wardrobe.ItemFilter) ([]wardrobe.ClothingItem, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]wardrobe.ClothingItem), args.Error(1)
}

func (m *MockClothingItemRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockClothingItemRepository) Save(ctx context.Context, item *wardrobe.ClothingItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockClothingItemRepository) RecordWear(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, ids, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockOutfitLookRepository is a mock implementation of wardrobe.OutfitLookRepository
type MockOutfitLookRepository struct {
	mock.Mock
}

func (m *MockOutfitLookRepository) FindByID(ctx context.Context, id uuid.UUID) (*wardrobe.OutfitLook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobe.OutfitLook), args.Error(1)
}

func (m *MockOutfitLookRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]wardrobe.OutfitLook, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]wardrobe.OutfitLook), args.Error(1)
}

func (m *MockOutfitLookRepository) SaveWithItems(ctx context.Context, look *wardrobe.OutfitLook, newItems []*wardrobe.ClothingItem) error {
	args := m.Called(ctx, look, newItems)
	return args.Error(0)
}

func (m *MockOutfitLookRepository) RecordWear(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, itemIDs, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockAnalysisRepository is a mock implementation of analysis.Repository
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*analysis.OutfitAnalysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.OutfitAnalysis), args.Error(1)
}

func (m *MockAnalysisRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]analysis.OutfitAnalysis, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]analysis.OutfitAnalysis), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnalysisRepository) Save(ctx context.Context, a *analysis.OutfitAnalysis) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnalysisRepository) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	args := m.Called(ctx, cutoff, message)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
