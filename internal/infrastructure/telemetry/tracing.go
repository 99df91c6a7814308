package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans
const TracerName = "github.com/wardrobe/backend"

// Span attribute keys set by the application services
const (
	SpanAttrUserID           = "wardrobe.user_id"
	SpanAttrAnalysisID       = "wardrobe.analysis_id"
	SpanAttrCaptureType      = "wardrobe.capture_type"
	SpanAttrItemCount        = "wardrobe.item_count"
	SpanAttrRecommendationID = "wardrobe.recommendation_id"
	SpanAttrCity             = "wardrobe.city"
	SpanAttrFallback         = "wardrobe.fallback"
)

// StartServiceSpan starts an internal span named "service.operation", for
// example "recommendation.daily". The caller ends it.
func StartServiceSpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records a non-nil err as a span event and fails the span
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
