package invoicing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guidebooker/invoice-service/internal/domain/invoice"
	"github.com/guidebooker/invoice-service/internal/infrastructure/cache"
	"github.com/guidebooker/invoice-service/internal/infrastructure/logger"
	infra "github.com/guidebooker/invoice-service/internal/infrastructure/printing"
	"github.com/guidebooker/invoice-service/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DocumentRenderer produces a PDF together with its page count.
// *printing.InvoiceRenderer satisfies it.
type DocumentRenderer interface {
	RenderDocument(rec *invoice.Record) (*infra.RenderResult, error)
	Config() infra.RendererConfig
}

// GenerateResult is a rendered invoice ready to be returned to a client
type GenerateResult struct {
	Filename string
	Data     []byte
	// Pages is zero when the document came from the cache
	Pages  int
	Cached bool
}

// InvoiceService orchestrates rendering of booking invoices
type InvoiceService struct {
	renderer    DocumentRenderer
	cache       cache.RenderCache
	cacheTTL    time.Duration
	metrics     *telemetry.RenderMetrics
	logger      *zap.Logger
	fingerprint []byte
}

// Option configures an InvoiceService
type Option func(*InvoiceService)

// WithCache serves repeated records from c
func WithCache(c cache.RenderCache, ttl time.Duration) Option {
	return func(s *InvoiceService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithMetrics records render metrics on m
func WithMetrics(m *telemetry.RenderMetrics) Option {
	return func(s *InvoiceService) {
		s.metrics = m
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(s *InvoiceService) {
		s.logger = l
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(renderer DocumentRenderer, opts ...Option) *InvoiceService {
	s := &InvoiceService{
		renderer: renderer,
		cache:    cache.NoopRenderCache{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// Renderer settings are part of the cache key so a config change never
	// serves documents laid out with the old settings.
	s.fingerprint, _ = json.Marshal(renderer.Config())
	return s
}

// Generate renders rec, consulting the render cache first.
// Render failures are returned as *printing.RenderError.
func (s *InvoiceService) Generate(ctx context.Context, rec *invoice.Record) (*GenerateResult, error) {
	if rec == nil {
		return nil, infra.NewRenderError(infra.ErrCodeRenderFailed, "no invoice record supplied", nil)
	}

	ctx = logger.WithInvoiceNumber(ctx, rec.InvoiceNumber)
	ctx, span := telemetry.StartServiceSpan(ctx, "invoicing", "Generate",
		telemetry.WithAttributes(
			attribute.String(telemetry.SpanAttrInvoiceNumber, rec.InvoiceNumber),
			attribute.String(telemetry.SpanAttrCurrency, rec.Currency),
			attribute.Int(telemetry.SpanAttrItemCount, len(rec.Items)),
		),
	)
	defer span.End()

	log := s.log(ctx)

	if err := ctx.Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	key, err := s.cacheKey(rec)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordFailure(ctx)
		return nil, err
	}

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("Render cache lookup failed", zap.Error(err))
	}
	if hit {
		span.SetAttributes(attribute.Bool(telemetry.SpanAttrCacheHit, true))
		telemetry.SetOK(span)
		s.metrics.RecordCacheHit(ctx)
		log.Debug("Invoice served from cache", zap.Int("bytes", len(data)))
		return &GenerateResult{Filename: rec.Filename(), Data: data, Cached: true}, nil
	}

	start := time.Now()
	result, err := s.renderer.RenderDocument(rec)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordFailure(ctx)
		var renderErr *infra.RenderError
		if errors.As(err, &renderErr) {
			log.Error("Invoice rendering failed", zap.String("code", renderErr.Code), zap.Error(err))
		} else {
			log.Error("Invoice rendering failed", zap.Error(err))
		}
		return nil, err
	}
	elapsed := time.Since(start)

	if err := s.cache.Set(ctx, key, result.PDFData, s.cacheTTL); err != nil {
		log.Warn("Render cache store failed", zap.Error(err))
	}

	span.SetAttributes(
		attribute.Bool(telemetry.SpanAttrCacheHit, false),
		attribute.Int(telemetry.SpanAttrPageCount, result.PageCount),
		attribute.Int(telemetry.SpanAttrBytes, len(result.PDFData)),
	)
	telemetry.SetOK(span)
	s.metrics.RecordRender(ctx, rec.Currency, elapsed, len(result.PDFData), result.PageCount)

	log.Info("Invoice rendered",
		zap.Int("pages", result.PageCount),
		zap.Int("bytes", len(result.PDFData)),
		zap.Any("regions", result.Layout.Regions),
		zap.Duration("duration", elapsed),
	)

	return &GenerateResult{
		Filename: rec.Filename(),
		Data:     result.PDFData,
		Pages:    result.PageCount,
	}, nil
}

func (s *InvoiceService) cacheKey(rec *invoice.Record) (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode invoice record: %w", err)
	}
	return cache.Key(payload, s.fingerprint), nil
}

func (s *InvoiceService) log(ctx context.Context) *logger.ContextLogger {
	if _, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		return logger.L(ctx)
	}
	return logger.WithLogger(ctx, s.logger)
}
