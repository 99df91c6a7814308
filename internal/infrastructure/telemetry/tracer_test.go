package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{ServiceName: "wardrobe-backend"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.TracesEnabled())
	assert.False(t, p.MetricsEnabled())
	assert.NotNil(t, p.Tracer("test"))
	assert.NotNil(t, p.Meter("test"))
	assert.False(t, p.ZapCore(zap.InfoLevel).Enabled(zap.ErrorLevel))
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_NilSafe(t *testing.T) {
	var p *Providers
	assert.False(t, p.TracesEnabled())
	assert.False(t, p.MetricsEnabled())
	assert.NotNil(t, p.Meter("test"))
	assert.NotNil(t, p.Tracer("test"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestMinLevelCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	filtered := &minLevelCore{Core: core, min: zapcore.WarnLevel}
	log := zap.New(filtered).With(zap.String("svc", "wardrobe"))

	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "wardrobe", logs.All()[0].ContextMap()["svc"])
	assert.False(t, filtered.Enabled(zapcore.InfoLevel))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), samplerFor(0.25).Description())
}

func TestNewResource_DefaultVersion(t *testing.T) {
	res, err := newResource("wardrobe-backend", "")
	require.NoError(t, err)

	v, ok := res.Set().Value("service.version")
	require.True(t, ok)
	assert.Equal(t, "dev", v.AsString())
	name, ok := res.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "wardrobe-backend", name.AsString())
}

func TestStartServiceSpan(t *testing.T) {
	recorder := installRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "recommendation", "daily",
		attribute.String(SpanAttrCity, "Paris"))
	assert.True(t, trace.SpanContextFromContext(ctx).HasTraceID())
	span.SetAttributes(attribute.Int(SpanAttrItemCount, 3), attribute.Bool(SpanAttrFallback, true))
	RecordError(span, errors.New("stylist down"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "recommendation.daily", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "stylist down", s.Status().Description)

	attrs := attribute.NewSet(s.Attributes()...)
	city, _ := attrs.Value(SpanAttrCity)
	assert.Equal(t, "Paris", city.AsString())
	count, _ := attrs.Value(SpanAttrItemCount)
	assert.Equal(t, int64(3), count.AsInt64())
	fallback, _ := attrs.Value(SpanAttrFallback)
	assert.True(t, fallback.AsBool())
	assert.Len(t, s.Events(), 1)
}

func TestRecordError_Nil(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartServiceSpan(context.Background(), "wardrobe", "save")
	RecordError(span, nil)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
}
