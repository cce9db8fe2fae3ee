package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/orderexport/backend/internal/bootstrap"
	"github.com/orderexport/backend/internal/infrastructure/config"
	"github.com/orderexport/backend/internal/infrastructure/logger"
	"github.com/orderexport/backend/internal/interfaces/http/middleware"
	"github.com/orderexport/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	ctx := context.Background()

	tel, bridged, err := bootstrap.SetupTelemetry(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = bridged
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting order export server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", bootstrap.Version),
	)

	source, err := bootstrap.NewOrderSource(cfg.Shopify, log)
	if err != nil {
		log.Fatal("Failed to configure Shopify", zap.Error(err))
	}
	if cfg.Shopify.AccessToken == "" {
		log.Warn("Shopify access token is not set, order requests will fail")
	}

	sink, err := bootstrap.NewSink(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to configure export storage", zap.Error(err))
	}

	exporter := bootstrap.NewExportService(source, sink, tel.Meter, log)

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		defer limiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	engine, err := router.NewEngine(router.Deps{
		Config:        cfg,
		Logger:        log,
		Exporter:      exporter,
		Version:       bootstrap.Version,
		RateLimiter:   limiter,
		MeterProvider: tel.Meter,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
