package testutil

import (
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderexport/backend/internal/domain/integration"
	"github.com/orderexport/backend/internal/infrastructure/ecommerce"
	"github.com/orderexport/backend/internal/infrastructure/logger"
	"github.com/orderexport/backend/internal/interfaces/http/dto"
)

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestTestContext_SetRequestID(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetRequestID("req-123")

	assert.Equal(t, "req-123", tc.Context.GetString(logger.GinRequestIDKey))
}

func TestTestContext_SetHeader(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetHeader("X-Custom", "value")

	assert.Equal(t, "value", tc.Context.GetHeader("X-Custom"))
}

func TestTestContext_Response(t *testing.T) {
	tc := NewTestContext(t)

	tc.Context.JSON(http.StatusCreated, gin.H{"ok": true})

	assert.Equal(t, http.StatusCreated, tc.ResponseCode())
	assert.JSONEq(t, `{"ok":true}`, string(tc.ResponseBody()))
}

func TestAssertEventually(t *testing.T) {
	var n atomic.Int32
	go func() {
		for range 3 {
			n.Add(1)
			time.Sleep(5 * time.Millisecond)
		}
	}()

	AssertEventually(t, func() bool { return n.Load() == 3 }, time.Second, time.Millisecond)
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		if c.GetHeader("X-Fail") != "" {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, "bad"))
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(c.Request.URL.Path))
	}

	var validated bool
	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{
			Name:           "success",
			Path:           "/orders",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]any{"success": true, "data": "/orders"},
			Validate: func(t *testing.T, tc *TestContext) {
				validated = true
				AssertSuccessResponse(t, tc.ResponseBody())
			},
		},
		{
			Name:           "error",
			Headers:        map[string]string{"X-Fail": "1"},
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *TestContext) {
				AssertErrorResponse(t, tc.ResponseBody(), dto.ErrCodeValidation)
			},
		},
	})
	assert.True(t, validated)
}

func TestFakeShopify(t *testing.T) {
	shop := NewFakeShopify(t, SampleOrdersPayload)
	adapter, err := ecommerce.NewShopifyAdapter(shop.Config())
	require.NoError(t, err)

	body, err := adapter.FetchOrdersRaw(t.Context(), &integration.OrderPullRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, SampleOrdersPayload, string(body))
	assert.Equal(t, 1, shop.Calls())
	assert.Contains(t, shop.LastPath(), "/orders.json")

	shop.Respond(http.StatusInternalServerError, "")
	_, err = adapter.FetchOrdersRaw(t.Context(), &integration.OrderPullRequest{Limit: 2})
	assert.Error(t, err)
	assert.Equal(t, 2, shop.Calls())
}

func TestFakeShopify_RejectsWrongToken(t *testing.T) {
	shop := NewFakeShopify(t, SampleOrdersPayload)
	cfg := shop.Config()
	cfg.AccessToken = "wrong"
	adapter, err := ecommerce.NewShopifyAdapter(cfg)
	require.NoError(t, err)

	_, err = adapter.FetchOrdersRaw(t.Context(), &integration.OrderPullRequest{Limit: 1})
	assert.Error(t, err)
}
