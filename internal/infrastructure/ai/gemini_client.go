package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/config"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient calls the Gemini API through the genai SDK
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini completer from configuration
func NewGeminiClient(ctx context.Context, cfg *config.AIConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

var _ Completer = (*GeminiClient)(nil)

// Name returns the provider name
func (g *GeminiClient) Name() string {
	return "gemini"
}

// Complete sends one generate-content request
func (g *GeminiClient) Complete(ctx context.Context, comp Completion) (string, string, error) {
	parts := []*genai.Part{genai.NewPartFromText(comp.Prompt)}
	if len(comp.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(comp.Image, comp.ImageType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := float32(comp.Temperature)
	gc := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(comp.MaxTokens),
	}
	if comp.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(comp.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, gc)
	if err != nil {
		return "", "", fmt.Errorf("%w: gemini: %v", shared.ErrUpstreamUnavailable, err)
	}

	model := resp.ModelVersion
	if model == "" {
		model = g.model
	}
	return strings.TrimSpace(resp.Text()), model, nil
}
