package invoicing_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guidebooker/invoice-service/internal/application/invoicing"
	"github.com/guidebooker/invoice-service/internal/domain/invoice"
	"github.com/guidebooker/invoice-service/internal/infrastructure/cache"
	"github.com/guidebooker/invoice-service/internal/infrastructure/logger"
	infra "github.com/guidebooker/invoice-service/internal/infrastructure/printing"
	"github.com/guidebooker/invoice-service/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderDocument(rec *invoice.Record) (*infra.RenderResult, error) {
	args := m.Called(rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

func (m *MockRenderer) Config() infra.RendererConfig {
	return infra.DefaultRendererConfig()
}

func sampleRecord() *invoice.Record {
	notes := "Thank you for choosing Guide Booker!"
	return &invoice.Record{
		InvoiceNumber:   "INV-2026-001",
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		CustomerAddress: "123 Main St, Bangkok, Thailand",
		BookingDate:     time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		GuideName:       "Somchai K.",
		Items: []invoice.LineItem{
			{Description: "City Walking Tour (Half Day)", Quantity: 2, UnitPrice: decimal.RequireFromString("75.00")},
			{Description: "Temple Guide Service", Quantity: 1, UnitPrice: decimal.RequireFromString("45.00")},
		},
		TaxRate:  decimal.RequireFromString("7.0"),
		Discount: decimal.RequireFromString("10.00"),
		Notes:    &notes,
		Currency: "USD",
	}
}

func newRenderer(t *testing.T) *infra.InvoiceRenderer {
	t.Helper()
	r, err := infra.NewInvoiceRenderer(infra.DefaultRendererConfig())
	require.NoError(t, err)
	return r
}

func setupTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func setupMetrics(t *testing.T) (*sdkmetric.ManualReader, *telemetry.RenderMetrics) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := telemetry.NewRenderMetrics(mp.Meter(telemetry.MeterName))
	require.NoError(t, err)
	return reader, m
}

func outcomes(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "invoice_render_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				v, _ := dp.Attributes.Value(telemetry.AttrOutcome)
				out[v.AsString()] = dp.Value
			}
		}
	}
	return out
}

func TestInvoiceService_Generate(t *testing.T) {
	sr := setupTracer(t)
	reader, metrics := setupMetrics(t)
	svc := invoicing.NewInvoiceService(newRenderer(t), invoicing.WithMetrics(metrics))

	result, err := svc.Generate(context.Background(), sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, "INV-2026-001.pdf", result.Filename)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF-")))
	assert.Equal(t, 1, result.Pages)
	assert.False(t, result.Cached)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoicing.Generate", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.Equal(t, map[string]int64{telemetry.OutcomeOK: 1}, outcomes(t, reader))
}

func TestInvoiceService_CacheHit(t *testing.T) {
	reader, metrics := setupMetrics(t)
	renderer := newRenderer(t)
	memCache := cache.NewInMemoryRenderCache(16)
	t.Cleanup(func() { _ = memCache.Close() })

	svc := invoicing.NewInvoiceService(renderer,
		invoicing.WithCache(memCache, time.Minute),
		invoicing.WithMetrics(metrics),
	)

	first, err := svc.Generate(context.Background(), sampleRecord())
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), sampleRecord())
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, first.Filename, second.Filename)
	assert.Equal(t, 1, memCache.Size())

	// A different record is a different key
	other := sampleRecord()
	other.Currency = "THB"
	third, err := svc.Generate(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, memCache.Size())

	assert.Equal(t, map[string]int64{
		telemetry.OutcomeOK:       2,
		telemetry.OutcomeCacheHit: 1,
	}, outcomes(t, reader))
}

func TestInvoiceService_RenderError(t *testing.T) {
	sr := setupTracer(t)
	reader, metrics := setupMetrics(t)
	core, logs := observer.New(zap.InfoLevel)

	renderer := new(MockRenderer)
	renderErr := infra.NewRenderError(infra.ErrCodeLayoutOverflow, "content does not fit", nil)
	renderer.On("RenderDocument", mock.Anything).Return(nil, renderErr)

	svc := invoicing.NewInvoiceService(renderer,
		invoicing.WithMetrics(metrics),
		invoicing.WithLogger(zap.New(core)),
	)

	result, err := svc.Generate(context.Background(), sampleRecord())
	assert.Nil(t, result)
	var got *infra.RenderError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, infra.ErrCodeLayoutOverflow, got.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	assert.Equal(t, map[string]int64{telemetry.OutcomeError: 1}, outcomes(t, reader))

	entries := logs.FilterMessage("Invoice rendering failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, infra.ErrCodeLayoutOverflow, entries[0].ContextMap()["code"])
	assert.Equal(t, "INV-2026-001", entries[0].ContextMap()["invoice_number"])
	renderer.AssertExpectations(t)
}

func TestInvoiceService_FailedRenderIsNotCached(t *testing.T) {
	renderer := new(MockRenderer)
	renderer.On("RenderDocument", mock.Anything).Return(nil, errors.New("boom")).Once()
	renderer.On("RenderDocument", mock.Anything).Return(&infra.RenderResult{PDFData: []byte("%PDF-1.3"), PageCount: 1}, nil).Once()

	memCache := cache.NewInMemoryRenderCache(16)
	t.Cleanup(func() { _ = memCache.Close() })
	svc := invoicing.NewInvoiceService(renderer, invoicing.WithCache(memCache, 0))

	_, err := svc.Generate(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Equal(t, 0, memCache.Size())

	result, err := svc.Generate(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.False(t, result.Cached)
	renderer.AssertExpectations(t)
}

func TestInvoiceService_UsesContextLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))
	ctx = logger.WithRequestID(ctx, "req-42")

	svc := invoicing.NewInvoiceService(newRenderer(t))
	_, err := svc.Generate(ctx, sampleRecord())
	require.NoError(t, err)

	entries := logs.FilterMessage("Invoice rendered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "INV-2026-001", fields["invoice_number"])
	assert.Equal(t, int64(1), fields["pages"])
	assert.Equal(t, []infra.RegionName{
		infra.RegionHeader, infra.RegionInfo, infra.RegionItems,
		infra.RegionTotals, infra.RegionNotes, infra.RegionFooter,
	}, fields["regions"])
}

func TestInvoiceService_CanceledContext(t *testing.T) {
	renderer := new(MockRenderer)
	svc := invoicing.NewInvoiceService(renderer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, sampleRecord())
	assert.ErrorIs(t, err, context.Canceled)
	renderer.AssertNotCalled(t, "RenderDocument", mock.Anything)
}

func TestInvoiceService_NilRecord(t *testing.T) {
	svc := invoicing.NewInvoiceService(newRenderer(t))
	_, err := svc.Generate(context.Background(), nil)
	var renderErr *infra.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, infra.ErrCodeRenderFailed, renderErr.Code)
}
