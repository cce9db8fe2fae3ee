package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/orderexport/backend/internal/infrastructure/ecommerce"
)

// FakeShopifyToken is the access token FakeShopify accepts
const FakeShopifyToken = "test-token"

// SampleOrdersPayload is an order list covering a multi-item order, an
// order without items and an unknown SKU.
const SampleOrdersPayload = `{"orders":[
	{"id":1,"name":"#1001","billing_address":{"name":"Ada Lovelace"},
	 "line_items":[{"sku":"CA12"},{"sku":"CA12B"}]},
	{"id":2,"name":"#1002","billing_address":null,"line_items":[]},
	{"id":3,"name":"#1003","line_items":[{"sku":"ZZZ999"}]}
]}`

// FakeShopify serves a configurable order list body. Requests without the
// FakeShopifyToken access token get 401.
type FakeShopify struct {
	*httptest.Server

	mu     sync.Mutex
	status int
	body   string
	path   string
	calls  atomic.Int32
}

// NewFakeShopify starts a fake store serving body with status 200.
// The server is closed when the test ends.
func NewFakeShopify(t *testing.T, body string) *FakeShopify {
	t.Helper()

	f := &FakeShopify{status: http.StatusOK, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeShopify) serve(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	f.mu.Lock()
	status, body := f.status, f.body
	f.path = r.URL.Path
	f.mu.Unlock()

	if r.Header.Get(ecommerce.ShopifyAccessTokenHeader) != FakeShopifyToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Respond changes the status and body of subsequent responses.
func (f *FakeShopify) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// Calls returns the number of requests received.
func (f *FakeShopify) Calls() int {
	return int(f.calls.Load())
}

// LastPath returns the path of the most recent request.
func (f *FakeShopify) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// Config returns a Shopify configuration pointing at the fake store.
func (f *FakeShopify) Config() *ecommerce.ShopifyConfig {
	cfg := ecommerce.NewShopifyConfig("", FakeShopifyToken)
	cfg.BaseURL = f.URL
	return cfg
}
