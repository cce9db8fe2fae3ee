package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orderexport/backend/tests/testutil"
)

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("orderexport", "1.2.3")
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Root(t *testing.T) {
	h := NewSystemHandler("orderexport", "1.2.3")
	c, w := newTestContext()

	h.Root(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("orderexport", "1.2.3")

	testutil.RunHTTPTestCase(t, h.Health, testutil.HTTPTestCase{
		Name:           "healthy",
		Path:           "/health",
		ExpectedStatus: http.StatusOK,
		ExpectedBody:   map[string]any{"status": "healthy"},
		Validate: func(t *testing.T, tc *testutil.TestContext) {
			assert.NotZero(t, testutil.JSONResponse(t, tc)["timestamp"])
		},
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("orderexport", "1.2.3")
	c, w := newTestContext()

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "orderexport", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("orderexport", "1.2.3")

	testutil.RunHTTPTestCase(t, h.Ping, testutil.HTTPTestCase{
		Name:           "pong",
		Path:           "/system/ping",
		ExpectedStatus: http.StatusOK,
		Validate: func(t *testing.T, tc *testutil.TestContext) {
			testutil.AssertSuccessResponse(t, tc.ResponseBody())
			data := testutil.JSONResponse(t, tc)["data"].(map[string]any)
			assert.Equal(t, "pong", data["message"])
			assert.NotEmpty(t, data["timestamp"])
		},
	})
}
