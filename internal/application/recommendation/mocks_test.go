package recommendation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// MockRecordRepository is a mock implementation of recommendation.Repository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Save(ctx context.Context, record *recommendation.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.Record), args.Error(1)
}

func (m *MockRecordRepository) FindSince(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]recommendation.Record, error) {
	args := m.Called(ctx, userID, since, limit)
	return args.Get(0).([]recommendation.Record), args.Error(1)
}

func (m *MockRecordRepository) FindLatestByRecommendationID(ctx context.Context, userID uuid.UUID, recommendationID string) (*recommendation.Record, error) {
	args := m.Called(ctx, userID, recommendationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.Record), args.Error(1)
}

func (m *MockRecordRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]recommendation.Record, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]recommendation.Record), args.Error(1)
}

func (m *MockRecordRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockItemReader is a mock implementation of wardrobe.ClothingItemReader
type MockItemReader struct {
	mock.Mock
}

func (m *MockItemReader) FindByID(ctx context.Context, id uuid.UUID) (*wardrobe.ClothingItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobe.ClothingItem), args.Error(1)
}

func (m *MockItemReader) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]wardrobe.ClothingItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]wardrobe.ClothingItem), args.Error(1)
}

func (m *MockItemReader) FindActiveByUser(ctx context.Context, userID uuid.UUID, filter wardrobe.ItemFilter) ([]wardrobe.ClothingItem, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]wardrobe.ClothingItem), args.Error(1)
}

func (m *MockItemReader) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockStylist is a mock implementation of recommendation.Stylist
type MockStylist struct {
	mock.Mock
}

func (m *MockStylist) Recommend(ctx context.Context, req recommendation.StylistRequest) ([]recommendation.Suggestion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommendation.Suggestion), args.Error(1)
}

func (m *MockStylist) MatchOutfit(ctx context.Context, item map[string]any, wardrobe []map[string]any) (string, error) {
	args := m.Called(ctx, item, wardrobe)
	return args.String(0), args.Error(1)
}

func (m *MockStylist) Suggest(ctx context.Context, preferences map[string]any) (string, error) {
	args := m.Called(ctx, preferences)
	return args.String(0), args.Error(1)
}

// MockWeatherProvider is a mock implementation of recommendation.WeatherProvider
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Current(ctx context.Context, city, countryCode string) (*recommendation.Weather, error) {
	args := m.Called(ctx, city, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.Weather), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
