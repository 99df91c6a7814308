// Package ai adapts language model providers to the vision analyzer and
// stylist ports.
package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/telemetry"
)

// Sampling settings per use
const (
	VisionTemperature  = 0.3
	VisionMaxTokens    = 1500
	StylistTemperature = 0.7
	StylistMaxTokens   = 1000
	MatchMaxTokens     = 800
	SuggestMaxTokens   = 1000
)

// Completion is one prompt sent to a model. Image is optional.
type Completion struct {
	System      string
	Prompt      string
	Image       []byte
	ImageType   string
	Temperature float64
	MaxTokens   int
}

// Completer runs a single completion and returns the text and the model that answered
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, string, error)
	Name() string
}

// Assistant implements the vision analyzer and the stylist on top of a Completer
type Assistant struct {
	completer Completer
	logger    *zap.Logger
	metrics   *telemetry.WardrobeMetrics
}

// Option configures an Assistant
type Option func(*Assistant)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithMetrics records the latency of every completion
func WithMetrics(m *telemetry.WardrobeMetrics) Option {
	return func(a *Assistant) {
		a.metrics = m
	}
}

// NewAssistant creates an assistant backed by completer
func NewAssistant(completer Completer, opts ...Option) *Assistant {
	a := &Assistant{
		completer: completer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var (
	_ analysis.VisionAnalyzer = (*Assistant)(nil)
	_ recommendation.Stylist  = (*Assistant)(nil)
)

// Provider returns the name of the underlying provider
func (a *Assistant) Provider() string {
	return a.completer.Name()
}

// AnalyzeImage asks the model to describe the clothing on the photo
func (a *Assistant) AnalyzeImage(ctx context.Context, req analysis.VisionRequest) (*analysis.VisionReply, error) {
	if len(req.Image) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("Image is empty")
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	text, model, err := a.complete(ctx, "vision", Completion{
		System:      VisionPrompt(req.CaptureType),
		Prompt:      visionInstruction,
		Image:       req.Image,
		ImageType:   contentType,
		Temperature: VisionTemperature,
		MaxTokens:   VisionMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return &analysis.VisionReply{Content: text, Model: model}, nil
}

// Recommend asks the stylist for today's outfit
func (a *Assistant) Recommend(ctx context.Context, req recommendation.StylistRequest) ([]recommendation.Suggestion, error) {
	prompt, err := StylistPrompt(req)
	if err != nil {
		return nil, err
	}
	text, _, err := a.complete(ctx, "recommend", Completion{
		System:      stylistSystemPrompt,
		Prompt:      prompt,
		Temperature: StylistTemperature,
		MaxTokens:   StylistMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return recommendation.ParseStylistReply(text)
}

// MatchOutfit describes the best combinations for an item
func (a *Assistant) MatchOutfit(ctx context.Context, item map[string]any, wardrobe []map[string]any) (string, error) {
	prompt, err := MatchPrompt(item, wardrobe)
	if err != nil {
		return "", err
	}
	text, _, err := a.complete(ctx, "match", Completion{
		System:      matchSystemPrompt,
		Prompt:      prompt,
		Temperature: StylistTemperature,
		MaxTokens:   MatchMaxTokens,
	})
	return text, err
}

// Suggest proposes outfits for the given preferences
func (a *Assistant) Suggest(ctx context.Context, preferences map[string]any) (string, error) {
	prompt, err := SuggestionsPrompt(preferences)
	if err != nil {
		return "", err
	}
	text, _, err := a.complete(ctx, "suggest", Completion{
		System:      suggestionsSystemPrompt,
		Prompt:      prompt,
		Temperature: StylistTemperature,
		MaxTokens:   SuggestMaxTokens,
	})
	return text, err
}

func (a *Assistant) complete(ctx context.Context, op string, c Completion) (string, string, error) {
	start := time.Now()
	text, model, err := a.completer.Complete(ctx, c)
	elapsed := time.Since(start)
	fields := []zap.Field{
		zap.String("provider", a.completer.Name()),
		zap.String("operation", op),
		zap.Duration("duration", elapsed),
	}
	if err != nil {
		a.metrics.RecordAIRequest(ctx, a.completer.Name(), "error", elapsed)
		a.logger.Warn("AI completion failed", append(fields, zap.Error(err))...)
		return "", "", fmt.Errorf("%s completion: %w", op, err)
	}
	a.metrics.RecordAIRequest(ctx, a.completer.Name(), "ok", elapsed)
	a.logger.Debug("AI completion", append(fields, zap.String("model", model), zap.Int("chars", len(text)))...)
	return text, model, nil
}
