package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
	"github.com/wardrobe/backend/internal/infrastructure/config"
)

type fakeCompleter struct {
	reply string
	err   error
	calls []Completion
}

func (f *fakeCompleter) Complete(_ context.Context, c Completion) (string, string, error) {
	f.calls = append(f.calls, c)
	return f.reply, "fake-model", f.err
}

func (f *fakeCompleter) Name() string { return "fake" }

func TestAssistant_AnalyzeImage(t *testing.T) {
	fake := &fakeCompleter{reply: `{"capture_type":"single_piece","pieces":[]}`}
	a := NewAssistant(fake)

	reply, err := a.AnalyzeImage(context.Background(), analysis.VisionRequest{
		Image:       []byte{1, 2, 3},
		CaptureType: analysis.CaptureTypeSinglePiece,
	})
	require.NoError(t, err)
	assert.Equal(t, "fake-model", reply.Model)

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, VisionTemperature, call.Temperature)
	assert.Equal(t, VisionMaxTokens, call.MaxTokens)
	assert.Equal(t, "image/jpeg", call.ImageType)
	assert.Contains(t, call.System, `"single_piece"`)
	assert.NotContains(t, call.System, "look_meta")

	_, err = a.AnalyzeImage(context.Background(), analysis.VisionRequest{})
	assert.Error(t, err)
}

func TestAssistant_Recommend(t *testing.T) {
	fake := &fakeCompleter{reply: `{"recommendations":[{"id":"combo-b-a","score":88,"reason":"frais"}]}`}
	a := NewAssistant(fake)

	got, err := a.Recommend(context.Background(), recommendation.StylistRequest{
		City:    "Lyon",
		Weather: recommendation.Weather{Temp: 31, Description: "Ciel dégagé"},
		Season:  wardrobe.SeasonSummer,
		Exclusions: recommendation.Exclusions{
			RecentlyWornIDs: []string{"item-9"},
		},
		Wardrobe: []recommendation.Piece{{ID: "a", Name: "T-shirt", Category: "top"}},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "combo-b-a", got[0].ID)

	call := fake.calls[0]
	assert.Equal(t, StylistTemperature, call.Temperature)
	assert.Equal(t, StylistMaxTokens, call.MaxTokens)
	assert.Contains(t, call.Prompt, "MÉTÉO À Lyon")
	assert.Contains(t, call.Prompt, `["item-9"]`)
	assert.Contains(t, call.Prompt, `"name":"T-shirt"`)
}

func TestAssistant_ErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fake := &fakeCompleter{err: errors.New("boom")}
	a := NewAssistant(fake, WithLogger(zap.New(core)))

	_, err := a.Suggest(context.Background(), map[string]any{"style": "chic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suggest completion")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "suggest", logs.All()[0].ContextMap()["operation"])
}

func TestAssistant_MatchAndSuggest(t *testing.T) {
	fake := &fakeCompleter{reply: "Associez avec un jean brut."}
	a := NewAssistant(fake)

	matches, err := a.MatchOutfit(context.Background(),
		map[string]any{"name": "Chemise blanche"},
		[]map[string]any{{"name": "Jean brut"}})
	require.NoError(t, err)
	assert.Equal(t, "Associez avec un jean brut.", matches)
	assert.Equal(t, MatchMaxTokens, fake.calls[0].MaxTokens)
	assert.Contains(t, fake.calls[0].Prompt, "Chemise blanche")

	_, err = a.Suggest(context.Background(), map[string]any{"occasion": "soirée"})
	require.NoError(t, err)
	assert.Equal(t, SuggestMaxTokens, fake.calls[1].MaxTokens)
}

func TestNewAssistantFromConfig(t *testing.T) {
	a, err := NewAssistantFromConfig(context.Background(), &config.AIConfig{Provider: "openai", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", a.Provider())

	_, err = NewAssistantFromConfig(context.Background(), &config.AIConfig{Provider: "mistral", APIKey: "k"}, nil)
	assert.Error(t, err)
}
