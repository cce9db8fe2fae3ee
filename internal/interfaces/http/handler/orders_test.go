package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/orderexport/backend/internal/application/export"
	"github.com/orderexport/backend/internal/domain/integration"
	"github.com/orderexport/backend/internal/infrastructure/logger"
	"github.com/orderexport/backend/internal/interfaces/http/dto"
	"github.com/orderexport/backend/internal/interfaces/http/middleware"
)

// fakeExporter records requests and returns canned results
type fakeExporter struct {
	raw        json.RawMessage
	summaries  []export.OrderSummary
	artifact   *export.Artifact
	location   string
	err        error
	publishErr error

	lastRequest export.Request
	published   *export.Artifact
}

func (f *fakeExporter) RawOrders(context.Context) (json.RawMessage, error) {
	return f.raw, f.err
}

func (f *fakeExporter) ListOrders(context.Context) ([]export.OrderSummary, error) {
	return f.summaries, f.err
}

func (f *fakeExporter) Export(_ context.Context, req export.Request) (*export.Artifact, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.artifact, nil
}

func (f *fakeExporter) Publish(_ context.Context, artifact *export.Artifact) (string, error) {
	f.published = artifact
	return f.location, f.publishErr
}

func csvArtifact() *export.Artifact {
	return &export.Artifact{
		FileName:     "orders.csv",
		ContentType:  "text/csv; charset=utf-8",
		Data:         []byte("a,b\n"),
		OrderCount:   2,
		RowCount:     6,
		Unidentified: 1,
	}
}

func newOrderRouter(exporter OrderExporter, log *zap.Logger) *gin.Engine {
	middleware.SetupValidator()
	h := NewOrderHandler(exporter)

	router := gin.New()
	router.Use(middleware.RequestID(), logger.GinMiddleware(log))
	router.GET("/orders", h.ListRaw)
	router.GET("/orders/summary", h.ListSummaries)
	router.GET("/orders/export", h.Download)
	router.POST("/orders/exports", h.Publish)
	return router
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestOrderHandler_ListRaw(t *testing.T) {
	t.Run("passes body through", func(t *testing.T) {
		raw := json.RawMessage(`{"orders":[{"id":1}]}`)
		router := newOrderRouter(&fakeExporter{raw: raw}, zap.NewNop())

		w := serve(router, http.MethodGet, "/orders")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(raw), w.Body.String())
	})

	t.Run("logs and hides failure", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		router := newOrderRouter(&fakeExporter{err: integration.ErrPlatformUnavailable}, zap.New(core))

		w := serve(router, http.MethodGet, "/orders")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch orders"}`, w.Body.String())
		assert.Equal(t, 1, logs.FilterMessage("Error fetching orders").Len())
	})
}

func TestOrderHandler_ListSummaries(t *testing.T) {
	router := newOrderRouter(&fakeExporter{summaries: []export.OrderSummary{
		{ID: 1, Name: "#1001", Customer: "Ada"},
	}}, zap.NewNop())

	w := serve(router, http.MethodGet, "/orders/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[{"id":1,"name":"#1001","customer":"Ada"}]}`, w.Body.String())
}

func TestOrderHandler_Download(t *testing.T) {
	t.Run("streams attachment", func(t *testing.T) {
		fake := &fakeExporter{artifact: csvArtifact()}
		router := newOrderRouter(fake, zap.NewNop())

		w := serve(router, http.MethodGet, "/orders/export?count=10&format=CSV")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "a,b\n", w.Body.String())
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="orders.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "2", w.Header().Get(HeaderExportOrders))
		assert.Equal(t, "6", w.Header().Get(HeaderExportRows))
		assert.Equal(t, "1", w.Header().Get(HeaderExportUnidentified))
		assert.Equal(t, export.Request{Count: 10, Format: export.FormatCSV}, fake.lastRequest)
	})

	t.Run("clamps and defaults query", func(t *testing.T) {
		tests := []struct {
			query string
			want  export.Request
		}{
			{"", export.Request{Count: 250, Format: export.FormatXLSX}},
			{"?count=0", export.Request{Count: 1, Format: export.FormatXLSX}},
			{"?count=9999", export.Request{Count: 250, Format: export.FormatXLSX}},
			{"?count=abc&format=xlsx", export.Request{Count: 250, Format: export.FormatXLSX}},
		}
		for _, tt := range tests {
			fake := &fakeExporter{artifact: csvArtifact()}
			router := newOrderRouter(fake, zap.NewNop())

			w := serve(router, http.MethodGet, "/orders/export"+tt.query)
			require.Equal(t, http.StatusOK, w.Code, tt.query)
			assert.Equal(t, tt.want, fake.lastRequest, tt.query)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		fake := &fakeExporter{artifact: csvArtifact()}
		router := newOrderRouter(fake, zap.NewNop())

		w := serve(router, http.MethodGet, "/orders/export?format=pdf")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, fake.lastRequest)
	})

	t.Run("maps export errors", func(t *testing.T) {
		router := newOrderRouter(&fakeExporter{err: integration.ErrPlatformRequestFailed}, zap.NewNop())

		w := serve(router, http.MethodGet, "/orders/export")
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, MsgFetchFailed, resp.Error.Message)
		assert.NotEmpty(t, resp.Error.RequestID)
	})
}

func TestOrderHandler_Publish(t *testing.T) {
	t.Run("stores artifact", func(t *testing.T) {
		fake := &fakeExporter{artifact: csvArtifact(), location: "s3://bucket/exports/orders.csv"}
		router := newOrderRouter(fake, zap.NewNop())

		w := serve(router, http.MethodPost, "/orders/exports?format=csv")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Same(t, fake.artifact, fake.published)

		var body struct {
			Data dto.PublishedExportResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, dto.PublishedExportResponse{
			FileName:     "orders.csv",
			Location:     "s3://bucket/exports/orders.csv",
			ContentType:  "text/csv; charset=utf-8",
			Bytes:        4,
			Orders:       2,
			Rows:         6,
			Unidentified: 1,
		}, body.Data)
	})

	t.Run("storage failure", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		fake := &fakeExporter{artifact: csvArtifact(), publishErr: errors.New("disk full")}
		router := newOrderRouter(fake, zap.New(core))

		w := serve(router, http.MethodPost, "/orders/exports")
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeStorage, resp.Error.Code)
		assert.Equal(t, MsgStorageFailed, resp.Error.Message)
		assert.Equal(t, 1, logs.FilterMessage("Error publishing export").Len())
	})

	t.Run("export failure skips publish", func(t *testing.T) {
		fake := &fakeExporter{err: integration.ErrPlatformAuthFailed}
		router := newOrderRouter(fake, zap.NewNop())

		w := serve(router, http.MethodPost, "/orders/exports")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Nil(t, fake.published)
	})
}
