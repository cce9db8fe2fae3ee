package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderexport/backend/internal/interfaces/http/dto"
)

func TestHandleValidationError_QueryBinding(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.GET("/export", func(c *gin.Context) {
		var q dto.ExportQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.String(http.StatusOK, q.Format)
	})

	t.Run("valid format passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?format=csv", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "csv", w.Body.String())
	})

	t.Run("unknown format is reported by query name", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?format=pdf", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "format", resp.Error.Details[0].Field)
		assert.Equal(t, "Must be one of: xlsx csv XLSX CSV", resp.Error.Details[0].Message)
	})
}

func TestFormatValidationErrors_PlainError(t *testing.T) {
	resp := FormatValidationErrors(errors.New("bad query"), "req-1")

	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "bad query", resp.Error.Details[0].Message)
}
