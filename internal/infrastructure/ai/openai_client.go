package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/config"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o"
	maxErrorBody         = 512
)

var (
	ErrMissingAPIKey = errors.New("ai: missing API key")
)

// OpenAIClient calls the chat-completions API
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAI completer from configuration
func NewOpenAIClient(cfg *config.AIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

var _ Completer = (*OpenAIClient)(nil)

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Complete sends one chat completion
func (c *OpenAIClient) Complete(ctx context.Context, comp Completion) (string, string, error) {
	messages := make([]openAIMessage, 0, 2)
	if comp.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: comp.System})
	}
	if len(comp.Image) > 0 {
		dataURL := "data:" + comp.ImageType + ";base64," + base64.StdEncoding.EncodeToString(comp.Image)
		messages = append(messages, openAIMessage{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "text", Text: comp.Prompt},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}},
			},
		})
	} else {
		messages = append(messages, openAIMessage{Role: "user", Content: comp.Prompt})
	}

	body, err := json.Marshal(openAIChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   comp.MaxTokens,
		Temperature: comp.Temperature,
	})
	if err != nil {
		return "", "", fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("openai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: openai: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("openai: failed to read response: %w", err)
	}

	var parsed openAIChatResponse
	decodeErr := json.Unmarshal(respBody, &parsed)

	if resp.StatusCode >= 400 {
		msg := string(respBody)
		if decodeErr == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return "", "", fmt.Errorf("%w: openai HTTP %d: %s", shared.ErrUpstreamUnavailable, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", "", fmt.Errorf("openai: failed to parse response: %w", decodeErr)
	}
	if len(parsed.Choices) == 0 {
		return "", "", fmt.Errorf("%w: openai returned no choice", shared.ErrUpstreamUnavailable)
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), model, nil
}
