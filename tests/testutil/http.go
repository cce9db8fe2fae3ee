package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestCase represents a test case for HTTP handler testing.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Headers        map[string]string
	ExpectedStatus int
	ExpectedBody   map[string]any
	Setup          func(t *testing.T, tc *TestContext)
	Validate       func(t *testing.T, tc *TestContext)
}

// RunHTTPTestCases runs a slice of HTTP test cases against a handler.
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase runs a single HTTP test case.
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}
	req := httptest.NewRequest(method, path, nil)
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	testCtx := NewTestContextWithRequest(t, req)
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(testCtx.Context)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, testCtx.ResponseCode(), "Unexpected status code")
	}

	if tc.ExpectedBody != nil {
		actualBody := JSONResponse(t, testCtx)
		for key, expectedValue := range tc.ExpectedBody {
			assert.Equal(t, expectedValue, actualBody[key], "Unexpected value for key: %s", key)
		}
	}

	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

// Serve sends a request without body through engine and returns the recorder.
func Serve(engine http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

// JSONResponse parses the response body as JSON.
func JSONResponse(t *testing.T, tc *TestContext) map[string]any {
	t.Helper()
	return JSONResponseAs[map[string]any](t, tc.ResponseBody())
}

// JSONResponseAs parses body into T.
func JSONResponseAs[T any](t *testing.T, body []byte) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(body, &result), "Failed to parse JSON response")
	return result
}

// AssertSuccessResponse asserts body is a successful API response.
func AssertSuccessResponse(t *testing.T, body []byte) {
	t.Helper()

	resp := JSONResponseAs[map[string]any](t, body)
	assert.Equal(t, true, resp["success"], "Expected success to be true")
	assert.Nil(t, resp["error"], "Expected no error")
}

// AssertErrorResponse asserts body is an error API response carrying expectedCode.
func AssertErrorResponse(t *testing.T, body []byte, expectedCode string) {
	t.Helper()

	resp := JSONResponseAs[map[string]any](t, body)
	assert.Equal(t, false, resp["success"], "Expected success to be false")

	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
}
