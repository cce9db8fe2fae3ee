package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orderexport/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are served without labels.
	SkipPaths []string
	// SkipPathPrefixes are served without labels.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/system/ping"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling tags the handler's CPU and allocation samples with the route,
// method and controller so profiles can be sliced per endpoint.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// profilingLabels uses the matched route pattern, never the raw path.
func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	return map[string]string{
		telemetry.ProfilingLabelMethod:     c.Request.Method,
		telemetry.ProfilingLabelRoute:      route,
		telemetry.ProfilingLabelController: controllerFromRoute(route),
	}
}

// controllerFromRoute returns the first static segment of a route:
// "/orders/export" -> "orders", "/" -> "root".
func controllerFromRoute(route string) string {
	if route == "" {
		return ""
	}
	for _, part := range strings.Split(route, "/") {
		if part == "" || strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return "root"
}
