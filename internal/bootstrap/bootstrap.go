// Package bootstrap wires configuration into the services shared by the
// HTTP server and the export command.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/orderexport/backend/internal/application/export"
	"github.com/orderexport/backend/internal/infrastructure/config"
	"github.com/orderexport/backend/internal/infrastructure/ecommerce"
	"github.com/orderexport/backend/internal/infrastructure/logger"
	"github.com/orderexport/backend/internal/infrastructure/spreadsheet"
	"github.com/orderexport/backend/internal/infrastructure/storage"
	"github.com/orderexport/backend/internal/infrastructure/telemetry"
)

// Version is stamped at build time with -ldflags "-X .../bootstrap.Version=..."
var Version = "dev"

// Storage backends
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// NewLogger builds the zap logger described by cfg
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		Output:     cfg.Output,
		TimeFormat: logger.DefaultTimeFormat,
	})
}

// Telemetry holds the OpenTelemetry providers of the process
type Telemetry struct {
	Tracer   *telemetry.TracerProvider
	Meter    *telemetry.MeterProvider
	Logs     *telemetry.LoggerProvider
	Profiler *telemetry.Profiler
}

// SetupTelemetry starts the providers enabled in cfg and returns them with a
// logger that also feeds the OTEL logs pipeline when it is enabled.
// Disabled providers stay no-ops.
func SetupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Telemetry, *zap.Logger, error) {
	tc := cfg.Telemetry

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.TracingEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    Version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: tracing: %w", err)
	}

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsInterval,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    Version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, fmt.Errorf("bootstrap: metrics: %w", err)
	}

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    Version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		_ = mp.Shutdown(ctx)
		_ = tp.Shutdown(ctx)
		return nil, nil, fmt.Errorf("bootstrap: logs: %w", err)
	}

	prof, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           tc.ProfilingEnabled,
		ServerAddress:     tc.ProfilingServerAddress,
		ApplicationName:   tc.ServiceName,
		BasicAuthUser:     tc.ProfilingBasicAuthUser,
		BasicAuthPassword: tc.ProfilingBasicAuthPassword,
	}, log)
	if err != nil {
		_ = lp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		_ = tp.Shutdown(ctx)
		return nil, nil, fmt.Errorf("bootstrap: profiling: %w", err)
	}
	if prof.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	t := &Telemetry{Tracer: tp, Meter: mp, Logs: lp, Profiler: prof}
	bridged := telemetry.Bridge(log, lp, tc.ServiceName, logger.ParseLevel(cfg.Log.Level))
	return t, bridged, nil
}

// Shutdown flushes and stops every provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.Profiler.Stop(),
		t.Logs.Shutdown(ctx),
		t.Meter.Shutdown(ctx),
		t.Tracer.Shutdown(ctx),
	)
}

// NewOrderSource builds the Shopify adapter from configuration
func NewOrderSource(cfg config.ShopifyConfig, log *zap.Logger) (*ecommerce.ShopifyAdapter, error) {
	shopifyCfg := ecommerce.NewShopifyConfig(cfg.StoreDomain, cfg.AccessToken)
	if cfg.APIVersion != "" {
		shopifyCfg.APIVersion = cfg.APIVersion
	}
	shopifyCfg.BaseURL = cfg.BaseURL
	shopifyCfg.TimeoutSeconds = cfg.TimeoutSeconds

	return ecommerce.NewShopifyAdapter(shopifyCfg, ecommerce.WithLogger(log))
}

// NewSink builds the artifact sink selected by cfg.Backend.
// S3 buckets are created on demand; a failure there is logged, not fatal.
func NewSink(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (export.ArtifactSink, error) {
	switch cfg.Backend {
	case "", StorageLocal:
		return storage.NewLocalDirStorage(cfg.LocalDir, log), nil
	case StorageS3:
		s3, err := storage.NewS3ObjectStorage(&cfg.S3, storage.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("bootstrap: s3 storage: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Could not ensure export bucket", zap.String("bucket", s3.GetBucket()), zap.Error(err))
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown storage backend %q", cfg.Backend)
	}
}

// NewExportService assembles the export service with every spreadsheet writer.
// sink and meter may be nil.
func NewExportService(source *ecommerce.ShopifyAdapter, sink export.ArtifactSink, meter *telemetry.MeterProvider, log *zap.Logger) *export.Service {
	opts := []export.Option{export.WithLogger(log)}
	for _, w := range spreadsheet.Writers() {
		opts = append(opts, export.WithWriter(w))
	}
	if sink != nil {
		opts = append(opts, export.WithSink(sink))
	}
	if meter != nil && meter.IsEnabled() {
		metrics, err := telemetry.NewExportMetrics(telemetry.ExportMetricsConfig{
			Meter:  meter.Meter("orderexport.export"),
			Logger: log,
		})
		if err != nil {
			log.Warn("Export metrics disabled", zap.Error(err))
		} else {
			opts = append(opts, export.WithMetrics(metrics))
		}
	}
	return export.NewService(source, opts...)
}
