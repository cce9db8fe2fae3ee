package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// OpenAPIPath is where the OpenAPI document is served
const OpenAPIPath = "/openapi.json"

// DocsHandler serves the OpenAPI document and the Swagger UI
type DocsHandler struct {
	document []byte
	ui       gin.HandlerFunc
}

// NewDocsHandler creates a DocsHandler for the given OpenAPI document
func NewDocsHandler(document []byte) *DocsHandler {
	return &DocsHandler{
		document: document,
		ui: ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.URL(OpenAPIPath),
			ginSwagger.DocExpansion("list"),
		),
	}
}

// OpenAPI returns the raw OpenAPI document
func (h *DocsHandler) OpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.document)
}

// UI serves the Swagger UI assets under /swagger/*any
func (h *DocsHandler) UI(c *gin.Context) {
	h.ui(c)
}
