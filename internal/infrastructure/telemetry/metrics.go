package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counter is a monotonically increasing int64 metric
type Counter struct {
	metric.Int64Counter
}

// NewCounter creates a counter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("counter %s: %w", name, err)
	}
	return &Counter{c}, nil
}

// Inc adds one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Int64Counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// AddN adds n
func (c *Counter) AddN(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	c.Int64Counter.Add(ctx, n, metric.WithAttributes(attrs...))
}

// Histogram records a float64 distribution
type Histogram struct {
	metric.Float64Histogram
}

// HistogramOpts describes a histogram. Boundaries override the SDK's default buckets.
type HistogramOpts struct {
	Name        string
	Description string
	Unit        string
	Boundaries  []float64
}

// NewHistogram creates a histogram
func NewHistogram(meter metric.Meter, opts HistogramOpts) (*Histogram, error) {
	options := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(opts.Boundaries) > 0 {
		options = append(options, metric.WithExplicitBucketBoundaries(opts.Boundaries...))
	}
	h, err := meter.Float64Histogram(opts.Name, options...)
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", opts.Name, err)
	}
	return &Histogram{h}, nil
}

// Observe records one value
func (h *Histogram) Observe(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	h.Float64Histogram.Record(ctx, v, metric.WithAttributes(attrs...))
}

// ObserveDuration records d in seconds
func (h *Histogram) ObserveDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Observe(ctx, d.Seconds(), attrs...)
}

// Metric attribute keys. HTTP keys follow the old semconv names the
// dashboards were built on.
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBState = attribute.Key("db.pool.state")

	AttrCaptureType        = attribute.Key("capture_type")
	AttrStatus             = attribute.Key("status")
	AttrProvider           = attribute.Key("provider")
	AttrRecommendationType = attribute.Key("recommendation_type")
	AttrSource             = attribute.Key("source")
	AttrReason             = attribute.Key("reason")
	AttrResult             = attribute.Key("result")
)

// Bucket boundaries in seconds
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	// AIDurationBuckets covers LLM round trips of several seconds
	AIDurationBuckets = []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60}
)
