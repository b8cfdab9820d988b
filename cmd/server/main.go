// Command server runs the invoice rendering HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/guidebooker/invoice-service/internal/application/invoicing"
	"github.com/guidebooker/invoice-service/internal/infrastructure/cache"
	"github.com/guidebooker/invoice-service/internal/infrastructure/config"
	"github.com/guidebooker/invoice-service/internal/infrastructure/logger"
	"github.com/guidebooker/invoice-service/internal/infrastructure/printing"
	"github.com/guidebooker/invoice-service/internal/infrastructure/telemetry"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/handler"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/middleware"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting invoice service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	meter := mp.Meter(telemetry.MeterName)
	renderMetrics, err := telemetry.NewRenderMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create render metrics", zap.Error(err))
	}

	// Render cache
	renderCache, err := cache.NewRenderCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create render cache", zap.Error(err))
	}
	defer func() {
		_ = renderCache.Close()
	}()

	// Renderer and application service
	renderer, err := printing.NewInvoiceRenderer(printing.RendererConfigFromSettings(cfg.Render))
	if err != nil {
		log.Fatal("Failed to create invoice renderer", zap.Error(err))
	}
	invoiceService := invoicing.NewInvoiceService(renderer,
		invoicing.WithCache(renderCache, cfg.Cache.TTL),
		invoicing.WithMetrics(renderMetrics),
		invoicing.WithLogger(log),
	)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.IsProduction()

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		ServiceName:    cfg.Telemetry.ServiceName,
		Tracing:        tp.IsEnabled(),
		Meter:          meter,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS:           corsConfig,
		Security:       securityConfig,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})

	router.NewRouter(engine).
		Register(handler.SystemRoutes(handler.NewSystemHandler(cfg.App.Name, cfg.App.Version))).
		Register(handler.InvoiceRoutes(handler.NewInvoiceHandler(invoiceService))).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
