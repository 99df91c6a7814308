// Package analysis runs uploaded photos through the vision analyzer and
// keeps the history of analyses.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/imaging"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/infrastructure/telemetry"
)

// ImageKeyPrefix is the storage prefix of original photos
const ImageKeyPrefix = "outfits"

// ImageKey builds the storage key of the original photo of an analysis
func ImageKey(userID, analysisID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s/%s%s", ImageKeyPrefix, userID, analysisID, ext)
}

// Service handles photo analyses
type Service struct {
	repo     analysis.Repository
	analyzer analysis.VisionAnalyzer
	storage  ImageStorage
	images   *imaging.Processor
	events   shared.EventPublisher
	metrics  *telemetry.WardrobeMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures the Service
type Option func(*Service)

// WithEventPublisher publishes analysis events through publisher
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithMetrics records analysis metrics
func WithMetrics(m *telemetry.WardrobeMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new analysis Service. A nil analyzer makes every
// analysis fail as upstream unavailable.
func NewService(repo analysis.Repository, analyzer analysis.VisionAnalyzer, storage ImageStorage, images *imaging.Processor, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		analyzer: analyzer,
		storage:  storage,
		images:   images,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze validates the photo, stores it when the user is known, and asks
// the analyzer to describe it. For known users every step is recorded on an
// outfit_analyses row; a failure after the row exists marks it failed.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeOutput, error) {
	captureType := analysis.CaptureTypeFor(in.ItemType)
	ctx, span := telemetry.StartServiceSpan(ctx, "analysis", "analyze",
		attribute.String(telemetry.SpanAttrCaptureType, string(captureType)))
	defer span.End()

	contentType, ext, err := s.images.Validate(in.Image)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	start := s.now()
	var record *analysis.OutfitAnalysis
	if in.UserID != nil && *in.UserID != uuid.Nil {
		record, err = s.begin(ctx, *in.UserID, captureType, in.Image, contentType, ext)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		span.SetAttributes(attribute.String(telemetry.SpanAttrAnalysisID, record.ID.String()))
	}

	out, err := s.run(ctx, record, in.Image, captureType, start)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordAnalysis(ctx, string(captureType), string(analysis.StatusFailed), s.now().Sub(start))
		if record != nil {
			s.markFailed(ctx, record, err)
		}
		return nil, err
	}

	s.metrics.RecordAnalysis(ctx, string(captureType), string(analysis.StatusCompleted), s.now().Sub(start))
	return out, nil
}

// begin creates the pending row and uploads the original photo
func (s *Service) begin(ctx context.Context, userID uuid.UUID, captureType analysis.CaptureType, data []byte, contentType, ext string) (*analysis.OutfitAnalysis, error) {
	record, err := analysis.NewOutfitAnalysis(userID, captureType)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	key := ImageKey(userID, record.ID, ext)
	url, err := s.storage.Put(ctx, key, data, contentType)
	if err != nil {
		s.markFailed(ctx, record, err)
		return nil, fmt.Errorf("%w: store image: %v", shared.ErrUpstreamUnavailable, err)
	}
	if err := record.AttachImage(key, url); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to delete orphaned analysis image",
				zap.String("key", key), zap.Error(delErr))
		}
		s.markFailed(ctx, record, err)
		return nil, err
	}
	return record, nil
}

func (s *Service) run(ctx context.Context, record *analysis.OutfitAnalysis, data []byte, captureType analysis.CaptureType, start time.Time) (*AnalyzeOutput, error) {
	prepared, err := s.images.Prepare(data)
	if err != nil {
		return nil, err
	}

	if record != nil {
		if err := record.StartProcessing(); err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	if s.analyzer == nil {
		return nil, fmt.Errorf("%w: no vision analyzer configured", shared.ErrUpstreamUnavailable)
	}
	reply, err := s.analyzer.AnalyzeImage(ctx, analysis.VisionRequest{
		Image:       prepared.JPEG,
		ContentType: "image/jpeg",
		CaptureType: captureType,
	})
	if err != nil {
		return nil, asAnalysisError(err)
	}

	result, raw, err := analysis.ParseReply(reply.Content, captureType)
	if err != nil {
		return nil, err
	}
	duration := s.now().Sub(start)

	out := &AnalyzeOutput{
		ModelUsed:  reply.Model,
		DurationMs: duration.Milliseconds(),
		Result:     result,
	}
	if record == nil {
		return out, nil
	}

	if err := record.Complete(result, reply.Model, raw, duration); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publish(ctx, record)

	out.AnalysisID = &record.ID
	out.ImageURL = record.ImageURL
	logger.WithLogger(ctx, s.logger).Info("Analysis completed",
		zap.String("analysis_id", record.ID.String()),
		zap.String("capture_type", string(captureType)),
		zap.Int("pieces", len(result.Pieces)),
		zap.String("model", reply.Model),
		zap.Int64("duration_ms", out.DurationMs),
	)
	return out, nil
}

// markFailed persists the failure. Errors are logged, the caller already
// returns the original error.
func (s *Service) markFailed(ctx context.Context, record *analysis.OutfitAnalysis, cause error) {
	log := logger.WithLogger(ctx, s.logger).With(zap.String("analysis_id", record.ID.String()))
	if err := record.Fail(cause.Error()); err != nil {
		log.Warn("Cannot mark analysis as failed", zap.Error(err))
		return
	}
	if err := s.repo.Save(ctx, record); err != nil {
		log.Error("Failed to persist analysis failure", zap.Error(err))
		return
	}
	s.publish(ctx, record)
	log.Warn("Analysis failed", zap.Error(cause))
}

func (s *Service) publish(ctx context.Context, record *analysis.OutfitAnalysis) {
	events := record.PullEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish analysis events", zap.Error(err))
	}
}

// asAnalysisError keeps domain errors and wraps anything else as ANALYSIS_FAILED
func asAnalysisError(err error) error {
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrAnalysisFailed, err)
}

// ListAnalyses lists the analyses of a user, newest first unless the filter
// orders otherwise
func (s *Service) ListAnalyses(ctx context.Context, userID uuid.UUID, filter AnalysisListFilter) ([]AnalysisResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Sort != "" {
		f.SortBy = filter.Sort
	}
	f.Ascending = filter.Order == "asc"
	f.Status = filter.Status

	list, total, err := s.repo.FindByUser(ctx, userID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToAnalysisResponses(list), total, nil
}

// GetAnalysis returns an analysis with its pieces
func (s *Service) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAnalysisResponse(a, true)
	return &resp, nil
}

// DeleteAnalysis deletes an analysis and, best effort, its stored photo
func (s *Service) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if a.ImageKey != "" {
		if err := s.storage.Delete(ctx, a.ImageKey); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to delete analysis image",
				zap.String("analysis_id", id.String()),
				zap.String("key", a.ImageKey),
				zap.Error(err),
			)
		}
	}
	return nil
}
