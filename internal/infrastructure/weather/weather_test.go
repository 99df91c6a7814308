package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/cache"
	"github.com/wardrobe/backend/internal/infrastructure/config"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "sunny"},
		{1, "sunny"},
		{2, "partly-sunny"},
		{3, "cloud"},
		{45, "cloudy"},
		{48, "cloudy"},
		{61, "rainy"},
		{73, "snow"},
		{81, "rainy"},
		{95, "thunderstorm"},
		{99, "thunderstorm"},
		{90, "partly-sunny"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Icon(tt.code), "code %d", tt.code)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Ciel dégagé", Describe(0))
	assert.Equal(t, "orage", Condition(95))
	assert.Equal(t, "Conditions inconnues", Describe(42))
}

func newOpenMeteoServer(t *testing.T, geo string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Lyon", r.URL.Query().Get("name"))
		assert.Equal(t, "fr", r.URL.Query().Get("language"))
		assert.Equal(t, "FR", r.URL.Query().Get("countryCode"))
		_, _ = w.Write([]byte(geo))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "45.7485", q.Get("latitude"))
		assert.Equal(t, "Europe/Paris", q.Get("timezone"))
		assert.Contains(t, q.Get("daily"), "sunrise")
		_, _ = w.Write([]byte(`{
			"timezone": "Europe/Paris",
			"current": {"temperature_2m": 31.2, "relative_humidity_2m": 40, "precipitation": 0, "weather_code": 1, "wind_speed_10m": 12.5},
			"daily": {"temperature_2m_max": [33.1], "temperature_2m_min": [19.4], "precipitation_sum": [0],
			          "weather_code": [1], "sunrise": ["2026-07-01T05:52"], "sunset": ["2026-07-01T21:31"]}
		}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestOpenMeteoClient_Current(t *testing.T) {
	server := newOpenMeteoServer(t, `{"results":[{"name":"Lyon","latitude":45.74846,"longitude":4.84671,"country":"France","country_code":"FR","timezone":"Europe/Paris"}]}`)
	client := NewOpenMeteoClient(&config.WeatherConfig{
		GeocodingURL: server.URL + "/v1/search",
		ForecastURL:  server.URL + "/v1/forecast",
	})

	w, err := client.Current(context.Background(), "Lyon", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Lyon", w.City)
	assert.Equal(t, 31.2, w.Temp)
	assert.Equal(t, 33.1, w.TempMax)
	assert.Equal(t, "sunny", w.Icon)
	assert.Equal(t, "Principalement dégagé", w.Description)
	require.NotNil(t, w.Sunrise)
	assert.Equal(t, 5, w.Sunrise.Hour())
	assert.Equal(t, "Europe/Paris", w.Sunrise.Location().String())
}

func TestOpenMeteoClient_CityNotFound(t *testing.T) {
	server := newOpenMeteoServer(t, `{}`)
	client := NewOpenMeteoClient(&config.WeatherConfig{
		GeocodingURL: server.URL + "/v1/search",
		ForecastURL:  server.URL + "/v1/forecast",
	})

	_, err := client.Current(context.Background(), "Lyon", "FR")
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestOpenMeteoClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	client := NewOpenMeteoClient(&config.WeatherConfig{GeocodingURL: server.URL, ForecastURL: server.URL})

	_, err := client.Current(context.Background(), "Paris", "")
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Current(_ context.Context, city, _ string) (*recommendation.Weather, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &recommendation.Weather{City: city, Temp: 18}, nil
}

func TestCachedProvider(t *testing.T) {
	store := cache.NewInMemoryWeatherCache()
	defer store.Close()
	next := &countingProvider{}
	p := NewCachedProvider(next, store, time.Minute, nil)

	for i := 0; i < 3; i++ {
		w, err := p.Current(context.Background(), "Paris", "fr")
		require.NoError(t, err)
		assert.Equal(t, 18.0, w.Temp)
	}
	assert.Equal(t, 1, next.calls)

	_, err := p.Current(context.Background(), " paris ", "FR")
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls, "keys are normalized")

	_, err = p.Current(context.Background(), "Paris", "US")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedProvider_ErrorNotCached(t *testing.T) {
	store := cache.NewInMemoryWeatherCache()
	defer store.Close()
	next := &countingProvider{err: errors.New("down")}
	p := NewCachedProvider(next, store, time.Minute, nil)

	_, err := p.Current(context.Background(), "Nice", "FR")
	require.Error(t, err)
	_, err = p.Current(context.Background(), "Nice", "FR")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 0, store.Size())
}
