package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "invoice-test",
	}

	tp, err := NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("requires an OTLP collector")
	}
	ctx := context.Background()
	cfg := Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     0.5,
		ServiceName:       "invoice-test",
		Insecure:          true,
	}

	// The gRPC exporter connects lazily so creation succeeds without a collector
	tp, err := NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(ctx, "span")
	span.End()
	_ = tp.Shutdown(ctx)
}

func TestNewSampler(t *testing.T) {
	sampledParent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
	})
	tests := []struct {
		name     string
		ratio    float64
		parent   trace.SpanContext
		decision sdktrace.SamplingDecision
	}{
		{"always", 1.0, trace.SpanContext{}, sdktrace.RecordAndSample},
		{"never", 0.0, trace.SpanContext{}, sdktrace.Drop},
		{"above one clamps to always", 3.0, trace.SpanContext{}, sdktrace.RecordAndSample},
		{"sampled parent wins", 0.0, sampledParent, sdktrace.RecordAndSample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := trace.ContextWithSpanContext(context.Background(), tt.parent)
			result := newSampler(tt.ratio).ShouldSample(sdktrace.SamplingParameters{
				ParentContext: ctx,
				TraceID:       trace.TraceID{2},
				Name:          "invoicing.Generate",
			})
			assert.Equal(t, tt.decision, result.Decision)
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("invoice-test", "")
	require.NoError(t, err)

	values := map[string]string{}
	for _, kv := range res.Attributes() {
		values[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "invoice-test", values["service.name"])
	assert.Equal(t, "dev", values["service.version"])
}
