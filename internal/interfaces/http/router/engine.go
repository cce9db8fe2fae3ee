package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/orderexport/backend/docs"
	"github.com/orderexport/backend/internal/infrastructure/config"
	"github.com/orderexport/backend/internal/infrastructure/logger"
	"github.com/orderexport/backend/internal/infrastructure/telemetry"
	"github.com/orderexport/backend/internal/interfaces/http/dto"
	"github.com/orderexport/backend/internal/interfaces/http/handler"
	"github.com/orderexport/backend/internal/interfaces/http/middleware"
)

// Deps are the collaborators the HTTP engine is built from
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Exporter handler.OrderExporter
	Version  string

	// RateLimiter is nil when rate limiting is disabled
	RateLimiter *middleware.RateLimiter
	// TracerProvider and MeterProvider fall back to the global providers when nil
	TracerProvider trace.TracerProvider
	MeterProvider  *telemetry.MeterProvider
}

// NewEngine builds the gin engine with the middleware chain and all routes
func NewEngine(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("router: trusted proxies: %w", err)
	}

	// RequestID must run before everything that logs or tags the request
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        cfg.Telemetry.TracingEnabled,
		TracerProvider: deps.TracerProvider,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: deps.MeterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
		Logger:        log,
	}))
	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = cfg.Telemetry.ProfilingEnabled
	engine.Use(middleware.Profiling(profilingCfg))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(middleware.DefaultMaxBodySize))
	if deps.RateLimiter != nil {
		engine.Use(middleware.RateLimit(deps.RateLimiter))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c),
		))
	})

	systemHandler := handler.NewSystemHandler(cfg.App.Name, deps.Version)
	orderHandler := handler.NewOrderHandler(deps.Exporter)
	docsHandler := handler.NewDocsHandler(docs.OpenAPI)

	rootRoutes := NewDomainGroup("root", "")
	rootRoutes.GET("/", systemHandler.Root)
	rootRoutes.GET("/health", systemHandler.Health)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	orderRoutes := NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", orderHandler.ListRaw)
	orderRoutes.GET("/summary", orderHandler.ListSummaries)
	orderRoutes.GET("/export", orderHandler.Download)
	orderRoutes.POST("/exports", orderHandler.Publish)

	docsRoutes := NewDomainGroup("docs", "").Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:    cfg.HTTP.DocsEnabled,
		AllowedIPs: cfg.HTTP.DocsAllowedIPs,
	}))
	docsRoutes.GET(handler.OpenAPIPath, docsHandler.OpenAPI)
	docsRoutes.GET("/swagger/*any", docsHandler.UI)

	NewRouter(engine).
		Register(rootRoutes).
		Register(systemRoutes).
		Register(orderRoutes).
		Register(docsRoutes).
		Setup()

	return engine, nil
}
