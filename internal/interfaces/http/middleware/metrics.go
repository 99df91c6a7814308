// Package middleware provides the gin middleware of the wardrobe API.
package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wardrobe/backend/internal/infrastructure/telemetry"
)

// Photo uploads dominate request sizes, so the buckets reach 20MB
var (
	requestSizeBuckets  = []float64{1e2, 1e3, 1e4, 1e5, 5e5, 1e6, 5e6, 1e7, 2e7}
	responseSizeBuckets = []float64{1e2, 5e2, 1e3, 5e3, 1e4, 5e4, 1e5, 5e5, 1e6}
)

type httpInstruments struct {
	requests  *telemetry.Counter
	duration  *telemetry.Histogram
	reqBytes  *telemetry.Histogram
	respBytes *telemetry.Histogram
	inFlight  metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var (
		in   httpInstruments
		errs = make([]error, 5)
	)
	in.requests, errs[0] = telemetry.NewCounter(meter, "http_server_request_total",
		"HTTP requests by method, route and status", "{request}")
	in.duration, errs[1] = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	in.reqBytes, errs[2] = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "HTTP request body size",
		Unit:        "By",
		Boundaries:  requestSizeBuckets,
	})
	in.respBytes, errs[3] = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size",
		Unit:        "By",
		Boundaries:  responseSizeBuckets,
	})
	in.inFlight, errs[4] = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests being served"),
		metric.WithUnit("{request}"))
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &in, nil
}

// HTTPMetrics counts requests by method, matched route and status, and
// records latency and body sizes by method and route. A nil meter, or one
// that cannot create the instruments, yields a pass-through middleware.
func HTTPMetrics(meter metric.Meter) gin.HandlerFunc {
	if meter == nil {
		return passThrough
	}
	in, err := newHTTPInstruments(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		in.inFlight.Add(ctx, 1)
		defer in.inFlight.Add(ctx, -1)

		c.Next()

		// the matched pattern keeps user ids out of the label values
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}
		in.requests.Inc(ctx, append(attrs, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))...)
		in.duration.ObserveDuration(ctx, time.Since(start), attrs...)
		if n := c.Request.ContentLength; n > 0 {
			in.reqBytes.Observe(ctx, float64(n), attrs...)
		}
		if n := c.Writer.Size(); n > 0 {
			in.respBytes.Observe(ctx, float64(n), attrs...)
		}
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}
