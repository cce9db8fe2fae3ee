// Package handler contains the gin handlers of the order export API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderexport/backend/internal/application/export"
	"github.com/orderexport/backend/internal/domain/integration"
	"github.com/orderexport/backend/internal/domain/order"
	"github.com/orderexport/backend/internal/interfaces/http/dto"
	"github.com/orderexport/backend/internal/interfaces/http/middleware"
)

// Client facing messages. Upstream details stay in the logs.
const (
	MsgFetchFailed       = "Error fetching orders. Please try again later."
	MsgInvalidData       = "Invalid data format received."
	MsgUnsupportedFormat = "Unsupported export format"
	MsgStorageFailed     = "Export could not be stored"
	MsgInternal          = "An unexpected error occurred"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context, falling back to the header
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleError maps export, payload and platform errors onto HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	code, message := classifyError(err)
	h.ErrorWithCode(c, code, message)
}

// classifyError returns the error code and client message for err
func classifyError(err error) (string, string) {
	switch {
	case errors.Is(err, export.ErrUnsupportedFormat):
		return dto.ErrCodeUnsupportedFormat, MsgUnsupportedFormat
	case errors.Is(err, order.ErrInvalidPayload):
		return dto.ErrCodeUpstreamData, MsgInvalidData
	case integration.IsUpstreamError(err):
		return dto.ErrCodeUpstream, MsgFetchFailed
	case errors.Is(err, export.ErrNoSink):
		return dto.ErrCodeStorage, MsgStorageFailed
	default:
		return dto.ErrCodeInternal, MsgInternal
	}
}
