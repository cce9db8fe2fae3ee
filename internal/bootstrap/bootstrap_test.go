package bootstrap

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/orderexport/backend/internal/application/export"
	"github.com/orderexport/backend/internal/domain/integration"
	"github.com/orderexport/backend/internal/infrastructure/config"
	"github.com/orderexport/backend/internal/infrastructure/storage"
	"github.com/orderexport/backend/internal/infrastructure/telemetry"
	"github.com/orderexport/backend/internal/interfaces/http/router"
	"github.com/orderexport/backend/tests/testutil"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(config.LogConfig{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestSetupTelemetry_Disabled(t *testing.T) {
	log := zaptest.NewLogger(t)
	cfg := &config.Config{
		Log:       config.LogConfig{Level: "info"},
		Telemetry: config.TelemetryConfig{ServiceName: "orderexport"},
	}

	tel, bridged, err := SetupTelemetry(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Same(t, log, bridged)
	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.False(t, tel.Tracer.SpanProfilesEnabled())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupTelemetry_ProfilingMisconfigured(t *testing.T) {
	cfg := &config.Config{
		Log: config.LogConfig{Level: "info"},
		Telemetry: config.TelemetryConfig{
			ServiceName:      "orderexport",
			ProfilingEnabled: true,
		},
	}

	_, _, err := SetupTelemetry(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, telemetry.ErrProfilerMissingServer)
}

func TestNewOrderSource(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("requires store or base URL", func(t *testing.T) {
		_, err := NewOrderSource(config.ShopifyConfig{AccessToken: "token"}, log)
		require.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
	})

	t.Run("builds adapter without token", func(t *testing.T) {
		src, err := NewOrderSource(config.ShopifyConfig{StoreDomain: "shop.example", APIVersion: "2024-01"}, log)
		require.NoError(t, err)
		assert.NotNil(t, src)
	})

	t.Run("builds adapter", func(t *testing.T) {
		src, err := NewOrderSource(config.ShopifyConfig{
			StoreDomain: "shop.example",
			AccessToken: "token",
			APIVersion:  "2024-04",
		}, log)
		require.NoError(t, err)
		assert.Equal(t, integration.PlatformCodeShopify, src.PlatformCode())
	})
}

func TestNewSink(t *testing.T) {
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	t.Run("local", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewSink(ctx, config.StorageConfig{Backend: StorageLocal, LocalDir: dir}, log)
		require.NoError(t, err)
		local, ok := sink.(*storage.LocalDirStorage)
		require.True(t, ok)
		assert.Equal(t, dir, local.Dir())
	})

	t.Run("empty backend means local", func(t *testing.T) {
		sink, err := NewSink(ctx, config.StorageConfig{}, log)
		require.NoError(t, err)
		assert.IsType(t, &storage.LocalDirStorage{}, sink)
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		_, err := NewSink(ctx, config.StorageConfig{Backend: StorageS3}, log)
		require.ErrorIs(t, err, storage.ErrBucketRequired)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewSink(ctx, config.StorageConfig{Backend: "ftp"}, log)
		assert.ErrorContains(t, err, `unknown storage backend "ftp"`)
	})
}

func TestNewExportService(t *testing.T) {
	log := zaptest.NewLogger(t)
	src, err := NewOrderSource(config.ShopifyConfig{StoreDomain: "shop.example", AccessToken: "token"}, log)
	require.NoError(t, err)

	svc := NewExportService(src, nil, nil, log)
	assert.Equal(t, []export.Format{export.FormatXLSX, export.FormatCSV}, svc.Formats())

	_, err = svc.Publish(context.Background(), &export.Artifact{Data: []byte("x")})
	assert.ErrorIs(t, err, export.ErrNoSink)
}

func TestServerWithoutToken_StaysAvailable(t *testing.T) {
	log := zaptest.NewLogger(t)
	shop := testutil.NewFakeShopify(t, testutil.SampleOrdersPayload)

	source, err := NewOrderSource(config.ShopifyConfig{BaseURL: shop.URL}, log)
	require.NoError(t, err)

	engine, err := router.NewEngine(router.Deps{
		Config: &config.Config{
			App:       config.AppConfig{Name: "orderexport", Env: "development"},
			Telemetry: config.TelemetryConfig{ServiceName: "orderexport"},
		},
		Logger:   log,
		Exporter: NewExportService(source, nil, nil, log),
		Version:  "test",
	})
	require.NoError(t, err)

	w := testutil.Serve(engine, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World", w.Body.String())

	w = testutil.Serve(engine, http.MethodGet, "/orders")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch orders"}`, w.Body.String())
	assert.Equal(t, 1, shop.Calls())
}
