package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Recommendation sources
const (
	SourceStylist  = "stylist"
	SourceFallback = "fallback"
)

// Weather lookup results
const (
	WeatherResultLive     = "live"
	WeatherResultFallback = "fallback"
)

// WardrobeMetrics records the domain metrics of the wardrobe service:
// photo analyses, AI latency, recommendations served and deprioritized,
// weather lookups and wear events.
type WardrobeMetrics struct {
	analysesTotal         *Counter
	analysisDuration      *Histogram
	aiRequestDuration     *Histogram
	recommendationsServed *Counter
	recommendationsStale  *Counter
	weatherLookups        *Counter
	wearEvents            *Counter
}

// NewWardrobeMetrics creates the wardrobe instruments on meter.
func NewWardrobeMetrics(meter metric.Meter) (*WardrobeMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var err error
	m := &WardrobeMetrics{}

	if m.analysesTotal, err = NewCounter(meter, "wardrobe_analysis_total",
		"Photo analyses by capture type and outcome", "{analysis}"); err != nil {
		return nil, err
	}
	if m.analysisDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "wardrobe_analysis_duration_seconds",
		Description: "End-to-end photo analysis duration",
		Unit:        "s",
		Boundaries:  AIDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.aiRequestDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "wardrobe_ai_request_duration_seconds",
		Description: "Latency of AI provider calls",
		Unit:        "s",
		Boundaries:  AIDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.recommendationsServed, err = NewCounter(meter, "wardrobe_recommendation_served_total",
		"Recommendations returned to users", "{recommendation}"); err != nil {
		return nil, err
	}
	if m.recommendationsStale, err = NewCounter(meter, "wardrobe_recommendation_stale_total",
		"Recommendations flagged as recently recommended or worn", "{recommendation}"); err != nil {
		return nil, err
	}
	if m.weatherLookups, err = NewCounter(meter, "wardrobe_weather_lookup_total",
		"Weather lookups by result", "{lookup}"); err != nil {
		return nil, err
	}
	if m.wearEvents, err = NewCounter(meter, "wardrobe_wear_event_total",
		"Items or combinations marked as worn", "{event}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordAnalysis records a finished analysis; status is completed or failed.
func (m *WardrobeMetrics) RecordAnalysis(ctx context.Context, captureType, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.analysesTotal.Inc(ctx, AttrCaptureType.String(captureType), AttrStatus.String(status))
	m.analysisDuration.ObserveDuration(ctx, d, AttrCaptureType.String(captureType))
}

// RecordAIRequest records the latency of one AI provider call.
func (m *WardrobeMetrics) RecordAIRequest(ctx context.Context, provider, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.aiRequestDuration.ObserveDuration(ctx, d, AttrProvider.String(provider), AttrStatus.String(status))
}

// RecordRecommendation records one recommendation served from source.
func (m *WardrobeMetrics) RecordRecommendation(ctx context.Context, recType, source string) {
	if m == nil {
		return
	}
	m.recommendationsServed.Inc(ctx, AttrRecommendationType.String(recType), AttrSource.String(source))
}

// RecordStaleRecommendation records a recommendation flagged for reason
// (recently_recommended or recently_worn).
func (m *WardrobeMetrics) RecordStaleRecommendation(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.recommendationsStale.Inc(ctx, AttrReason.String(reason))
}

// RecordWeatherLookup records a weather lookup result.
func (m *WardrobeMetrics) RecordWeatherLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.weatherLookups.Inc(ctx, AttrResult.String(result))
}

// RecordWear records a wear event for a single item or a combination.
func (m *WardrobeMetrics) RecordWear(ctx context.Context, recType string) {
	if m == nil {
		return
	}
	m.wearEvents.Inc(ctx, AttrRecommendationType.String(recType))
}
