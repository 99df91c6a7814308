package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStylistReply(t *testing.T) {
	reply := "```json\n" + `{
  "weather": {"temp": 21},
  "recommendations": [
    {"id": "combo-a-b", "score": 92, "reason": "léger", "weather_adaptation": "coton", "style_tips": "manches retroussées"},
    {"id": "  ", "score": 10},
    {"id": "item-1", "score": "high"},
    {"id": "item-2", "score": 140}
  ]
}` + "\n```"

	got, err := ParseStylistReply(reply)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "combo-a-b", got[0].ID)
	require.NotNil(t, got[0].Score)
	assert.Equal(t, 92.0, *got[0].Score)
	assert.Equal(t, "coton", got[0].WeatherAdaptation)

	assert.Nil(t, got[1].Score)
	assert.Nil(t, got[2].Score)
}

func TestParseStylistReply_Errors(t *testing.T) {
	_, err := ParseStylistReply("  ")
	assert.ErrorIs(t, err, ErrEmptyStylistReply)

	_, err = ParseStylistReply("Voici ma recommandation")
	require.Error(t, err)
}
