package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation name for invoice metrics.
const MeterName = "invoice-service"

// Render outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCacheHit = "cache_hit"
)

// RenderMetrics holds the instruments recorded for each generated invoice.
type RenderMetrics struct {
	renders  *Counter
	duration *Histogram
	size     *Histogram
	pages    *Histogram
}

// NewRenderMetrics registers the invoice render instruments on meter.
func NewRenderMetrics(meter metric.Meter) (*RenderMetrics, error) {
	renders, err := NewCounter(meter,
		"invoice_render_total",
		"Invoice generation attempts by outcome",
		"{render}",
	)
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "invoice_render_duration_seconds",
		Description: "Time spent producing an invoice PDF",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	size, err := NewHistogram(meter, HistogramOpts{
		Name:        "invoice_render_bytes",
		Description: "Size of rendered invoice PDFs",
		Unit:        "By",
		Boundaries:  DocumentSizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	pages, err := NewHistogram(meter, HistogramOpts{
		Name:        "invoice_render_pages",
		Description: "Page count of rendered invoice PDFs",
		Unit:        "{page}",
		Boundaries:  PageCountBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &RenderMetrics{renders: renders, duration: duration, size: size, pages: pages}, nil
}

// RecordRender records a fresh render.
func (m *RenderMetrics) RecordRender(ctx context.Context, currency string, d time.Duration, bytes, pages int) {
	if m == nil {
		return
	}
	m.renders.Inc(ctx, AttrOutcome.String(OutcomeOK))
	m.duration.RecordDuration(ctx, d, AttrCurrency.String(currency))
	m.size.Record(ctx, float64(bytes))
	m.pages.Record(ctx, float64(pages))
}

// RecordCacheHit records an invoice served from the render cache.
func (m *RenderMetrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.renders.Inc(ctx, AttrOutcome.String(OutcomeCacheHit))
}

// RecordFailure records a failed render.
func (m *RenderMetrics) RecordFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.renders.Inc(ctx, AttrOutcome.String(OutcomeError))
}
