package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	analysisapp "github.com/wardrobe/backend/internal/application/analysis"
	recommendationapp "github.com/wardrobe/backend/internal/application/recommendation"
	wardrobeapp "github.com/wardrobe/backend/internal/application/wardrobe"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, in analysisapp.AnalyzeInput) (*analysisapp.AnalyzeOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysisapp.AnalyzeOutput), args.Error(1)
}

func (m *MockAnalysisService) ListAnalyses(ctx context.Context, userID uuid.UUID, filter analysisapp.AnalysisListFilter) ([]analysisapp.AnalysisResponse, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]analysisapp.AnalysisResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnalysisService) GetAnalysis(ctx context.Context, id uuid.UUID) (*analysisapp.AnalysisResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysisapp.AnalysisResponse), args.Error(1)
}

func (m *MockAnalysisService) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockWardrobeService struct {
	mock.Mock
}

func (m *MockWardrobeService) SaveAnalysis(ctx context.Context, req wardrobeapp.SaveAnalysisRequest) (*wardrobeapp.SaveAnalysisResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobeapp.SaveAnalysisResponse), args.Error(1)
}

func (m *MockWardrobeService) ListPieces(ctx context.Context, userID uuid.UUID, filter wardrobeapp.PieceListFilter) (*wardrobeapp.PiecesResponse, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobeapp.PiecesResponse), args.Error(1)
}

func (m *MockWardrobeService) ListLooks(ctx context.Context, userID uuid.UUID) ([]wardrobeapp.LookResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wardrobeapp.LookResponse), args.Error(1)
}

func (m *MockWardrobeService) GetItem(ctx context.Context, requester, id uuid.UUID) (*wardrobeapp.ItemResponse, error) {
	args := m.Called(ctx, requester, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobeapp.ItemResponse), args.Error(1)
}

func (m *MockWardrobeService) UpdateItem(ctx context.Context, requester, id uuid.UUID, req wardrobeapp.UpdateItemRequest) (*wardrobeapp.ItemResponse, error) {
	args := m.Called(ctx, requester, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobeapp.ItemResponse), args.Error(1)
}

func (m *MockWardrobeService) DeleteItem(ctx context.Context, requester, id uuid.UUID) error {
	return m.Called(ctx, requester, id).Error(0)
}

func (m *MockWardrobeService) ToggleFavorite(ctx context.Context, requester, id uuid.UUID) (*wardrobeapp.ItemResponse, error) {
	args := m.Called(ctx, requester, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wardrobeapp.ItemResponse), args.Error(1)
}

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) DailyRecommendations(ctx context.Context, req recommendationapp.DailyRequest) (*recommendationapp.DailyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.DailyResponse), args.Error(1)
}

func (m *MockRecommendationService) MatchOutfit(ctx context.Context, req recommendationapp.MatchRequest) (*recommendationapp.MatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.MatchResponse), args.Error(1)
}

func (m *MockRecommendationService) GenerateSuggestions(ctx context.Context, preferences map[string]any) (*recommendationapp.SuggestionsResponse, error) {
	args := m.Called(ctx, preferences)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.SuggestionsResponse), args.Error(1)
}

func (m *MockRecommendationService) Track(ctx context.Context, req recommendationapp.TrackRequest) (*recommendationapp.RecordResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.RecordResponse), args.Error(1)
}

func (m *MockRecommendationService) Recent(ctx context.Context, userID uuid.UUID, filter recommendationapp.WindowFilter) ([]recommendationapp.RecordResponse, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommendationapp.RecordResponse), args.Error(1)
}

func (m *MockRecommendationService) History(ctx context.Context, userID uuid.UUID, filter recommendationapp.WindowFilter) ([]recommendationapp.HistoryEntry, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommendationapp.HistoryEntry), args.Error(1)
}

func (m *MockRecommendationService) CheckRecentlyRecommended(ctx context.Context, req recommendationapp.CheckRequest) (*recommendationapp.CheckResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.CheckResponse), args.Error(1)
}

func (m *MockRecommendationService) Stats(ctx context.Context, userID uuid.UUID) (*recommendationapp.StatsResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.StatsResponse), args.Error(1)
}

func (m *MockRecommendationService) FindByRecommendationID(ctx context.Context, userID uuid.UUID, recommendationID string) (*recommendationapp.RecordResponse, error) {
	args := m.Called(ctx, userID, recommendationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.RecordResponse), args.Error(1)
}

func (m *MockRecommendationService) MarkRecordWorn(ctx context.Context, requester, recordID uuid.UUID) (*recommendationapp.RecordResponse, error) {
	args := m.Called(ctx, requester, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.RecordResponse), args.Error(1)
}

func (m *MockRecommendationService) MarkWorn(ctx context.Context, req recommendationapp.MarkWornRequest) (*recommendationapp.WearHistoryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.WearHistoryResponse), args.Error(1)
}

func (m *MockRecommendationService) WearHistory(ctx context.Context, userID uuid.UUID) (*recommendationapp.WearHistoryResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendationapp.WearHistoryResponse), args.Error(1)
}
