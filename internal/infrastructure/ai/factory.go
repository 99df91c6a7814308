package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/infrastructure/config"
)

// NewAssistantFromConfig builds the assistant for the configured provider.
// Extra options are applied after the logger.
func NewAssistantFromConfig(ctx context.Context, cfg *config.AIConfig, logger *zap.Logger, opts ...Option) (*Assistant, error) {
	var (
		completer Completer
		err       error
	)
	switch cfg.Provider {
	case "openai", "":
		completer, err = NewOpenAIClient(cfg)
	case "gemini":
		completer, err = NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return NewAssistant(completer, append([]Option{WithLogger(logger.Named("ai"))}, opts...)...), nil
}
