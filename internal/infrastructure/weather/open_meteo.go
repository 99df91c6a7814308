// Package weather fetches current conditions from Open-Meteo.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/config"
)

const (
	currentFields = "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m"
	dailyFields   = "temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code,sunrise,sunset"
	localLayout   = "2006-01-02T15:04"
)

// ErrCityNotFound is returned when geocoding finds no match
var ErrCityNotFound = shared.NewDomainError("CITY_NOT_FOUND", "City not found")

// OpenMeteoClient implements recommendation.WeatherProvider against Open-Meteo
type OpenMeteoClient struct {
	geocodingURL string
	forecastURL  string
	httpClient   *http.Client
}

// NewOpenMeteoClient creates a client from configuration
func NewOpenMeteoClient(cfg *config.WeatherConfig) *OpenMeteoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenMeteoClient{
		geocodingURL: cfg.GeocodingURL,
		forecastURL:  cfg.ForecastURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

var _ recommendation.WeatherProvider = (*OpenMeteoClient)(nil)

type geocodingResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Timezone    string  `json:"timezone"`
	} `json:"results"`
}

type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily struct {
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		Sunrise          []string  `json:"sunrise"`
		Sunset           []string  `json:"sunset"`
	} `json:"daily"`
}

// Current geocodes the city then reads its current forecast
func (c *OpenMeteoClient) Current(ctx context.Context, city, countryCode string) (*recommendation.Weather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, shared.ErrInvalidInput.WithMessage("City cannot be empty")
	}

	geoQuery := url.Values{}
	geoQuery.Set("name", city)
	geoQuery.Set("count", "1")
	geoQuery.Set("language", "fr")
	if countryCode != "" {
		geoQuery.Set("countryCode", strings.ToUpper(countryCode))
	}

	var geo geocodingResponse
	if err := c.getJSON(ctx, c.geocodingURL, geoQuery, &geo); err != nil {
		return nil, fmt.Errorf("geocoding %s: %w", city, err)
	}
	if len(geo.Results) == 0 {
		return nil, ErrCityNotFound
	}
	place := geo.Results[0]

	tz := place.Timezone
	if tz == "" {
		tz = "auto"
	}
	fcQuery := url.Values{}
	fcQuery.Set("latitude", strconv.FormatFloat(place.Latitude, 'f', 4, 64))
	fcQuery.Set("longitude", strconv.FormatFloat(place.Longitude, 'f', 4, 64))
	fcQuery.Set("current", currentFields)
	fcQuery.Set("daily", dailyFields)
	fcQuery.Set("timezone", tz)
	fcQuery.Set("forecast_days", "1")

	var fc forecastResponse
	if err := c.getJSON(ctx, c.forecastURL, fcQuery, &fc); err != nil {
		return nil, fmt.Errorf("forecast %s: %w", city, err)
	}

	loc := time.UTC
	if l, err := time.LoadLocation(firstNonEmpty(fc.Timezone, place.Timezone)); err == nil {
		loc = l
	}

	code := fc.Current.WeatherCode
	w := &recommendation.Weather{
		City:          place.Name,
		Temp:          fc.Current.Temperature,
		TempMax:       first(fc.Daily.TemperatureMax),
		TempMin:       first(fc.Daily.TemperatureMin),
		Condition:     Condition(code),
		Description:   Describe(code),
		Icon:          Icon(code),
		Humidity:      fc.Current.Humidity,
		Wind:          fc.Current.WindSpeed,
		Precipitation: fc.Current.Precipitation,
		Sunrise:       parseLocal(fc.Daily.Sunrise, loc),
		Sunset:        parseLocal(fc.Daily.Sunset, loc),
	}
	return w, nil
}

func (c *OpenMeteoClient) getJSON(ctx context.Context, base string, query url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", shared.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func first(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseLocal(values []string, loc *time.Location) *time.Time {
	if len(values) == 0 {
		return nil
	}
	t, err := time.ParseInLocation(localLayout, values[0], loc)
	if err != nil {
		return nil
	}
	return &t
}
