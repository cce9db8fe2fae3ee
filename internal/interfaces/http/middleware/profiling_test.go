package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orderexport/backend/internal/infrastructure/telemetry"
)

// labelRecorder captures the pprof labels the handler runs with
func labelRecorder(got map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			got[key] = value
			return true
		})
		c.Status(http.StatusOK)
	}
}

func TestProfiling_LabelsRoute(t *testing.T) {
	got := map[string]string{}
	router := gin.New()
	router.Use(Profiling(DefaultProfilingConfig()))
	router.GET("/orders/export", labelRecorder(got))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/export?count=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		telemetry.ProfilingLabelMethod:     http.MethodGet,
		telemetry.ProfilingLabelRoute:      "/orders/export",
		telemetry.ProfilingLabelController: "orders",
	}, got)
}

func TestProfiling_SkipsAndDisabled(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ProfilingConfig
		route string
		path  string
	}{
		{"skip path", DefaultProfilingConfig(), "/health", "/health"},
		{"skip prefix", DefaultProfilingConfig(), "/swagger/*any", "/swagger/index.html"},
		{"disabled", ProfilingConfig{Enabled: false}, "/orders", "/orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]string{}
			router := gin.New()
			router.Use(Profiling(tt.cfg))
			router.GET(tt.route, labelRecorder(got))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, got)
		})
	}
}

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"", ""},
		{"/", "root"},
		{"/orders", "orders"},
		{"/orders/summary", "orders"},
		{"/system/info", "system"},
		{"/swagger/*any", "swagger"},
		{"/:id/items", "items"},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, controllerFromRoute(tt.route))
		})
	}
}
