package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderexport/backend/internal/application/export"
	"github.com/orderexport/backend/internal/infrastructure/logger"
	"github.com/orderexport/backend/internal/interfaces/http/dto"
	"github.com/orderexport/backend/internal/interfaces/http/middleware"
)

// Export metadata headers
const (
	HeaderExportOrders       = "X-Export-Orders"
	HeaderExportRows         = "X-Export-Rows"
	HeaderExportUnidentified = "X-Export-Unidentified"
)

// OrderExporter is the slice of export.Service the order endpoints use
type OrderExporter interface {
	RawOrders(ctx context.Context) (json.RawMessage, error)
	ListOrders(ctx context.Context) ([]export.OrderSummary, error)
	Export(ctx context.Context, req export.Request) (*export.Artifact, error)
	Publish(ctx context.Context, artifact *export.Artifact) (string, error)
}

var _ OrderExporter = (*export.Service)(nil)

// OrderHandler serves the order list and export endpoints
type OrderHandler struct {
	BaseHandler
	exporter OrderExporter
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(exporter OrderExporter) *OrderHandler {
	return &OrderHandler{exporter: exporter}
}

// ListRaw relays the platform's order list body unchanged.
// Failures answer with the fixed {"error":"Failed to fetch orders"} body.
func (h *OrderHandler) ListRaw(c *gin.Context) {
	body, err := h.exporter.RawOrders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		logger.GetGinLogger(c).Error("Error fetching orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.LegacyError{Error: "Failed to fetch orders"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// ListSummaries returns id, name and customer for every fetched order
func (h *OrderHandler) ListSummaries(c *gin.Context) {
	summaries, err := h.exporter.ListOrders(c.Request.Context())
	if err != nil {
		logger.GetGinLogger(c).Error("Error listing orders", zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, summaries)
}

// Download renders the export and streams it as an attachment
func (h *OrderHandler) Download(c *gin.Context) {
	req, ok := h.bindExportRequest(c)
	if !ok {
		return
	}

	artifact, err := h.exporter.Export(c.Request.Context(), req)
	if err != nil {
		logger.GetGinLogger(c).Error("Error exporting orders", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Header(HeaderExportOrders, strconv.Itoa(artifact.OrderCount))
	c.Header(HeaderExportRows, strconv.Itoa(artifact.RowCount))
	c.Header(HeaderExportUnidentified, strconv.Itoa(artifact.Unidentified))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// Publish renders the export and stores it through the configured sink
func (h *OrderHandler) Publish(c *gin.Context) {
	req, ok := h.bindExportRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	log := logger.GetGinLogger(c)

	artifact, err := h.exporter.Export(ctx, req)
	if err != nil {
		log.Error("Error exporting orders", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	location, err := h.exporter.Publish(ctx, artifact)
	if err != nil {
		_ = c.Error(err)
		log.Error("Error publishing export", zap.String("file", artifact.FileName), zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeStorage, MsgStorageFailed)
		return
	}

	h.Created(c, dto.PublishedExportResponse{
		FileName:     artifact.FileName,
		Location:     location,
		ContentType:  artifact.ContentType,
		Bytes:        len(artifact.Data),
		Orders:       artifact.OrderCount,
		Rows:         artifact.RowCount,
		Unidentified: artifact.Unidentified,
	})
}

// bindExportRequest reads count and format from the query string.
// It writes the error response itself and reports false on failure.
func (h *OrderHandler) bindExportRequest(c *gin.Context) (export.Request, bool) {
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return export.Request{}, false
	}

	format, err := export.ParseFormat(q.Format)
	if err != nil {
		h.HandleError(c, err)
		return export.Request{}, false
	}
	return export.Request{Count: export.ParseCount(q.Count), Format: format}, true
}
