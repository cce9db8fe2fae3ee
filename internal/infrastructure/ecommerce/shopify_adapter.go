package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orderexport/backend/internal/domain/integration"
	"github.com/orderexport/backend/internal/domain/order"
)

// maxResponseSize is the maximum allowed response size from the Shopify API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ErrShopifyResponseTooLarge is returned when a response body exceeds the size limit
var ErrShopifyResponseTooLarge = fmt.Errorf("%w: response too large", integration.ErrPlatformInvalidResponse)

// ShopifyAdapter implements integration.OrderSource for the Shopify Admin REST API
type ShopifyAdapter struct {
	config          *ShopifyConfig
	httpClient      *http.Client
	logger          *zap.Logger
	maxResponseSize int
}

// ShopifyOption configures a ShopifyAdapter
type ShopifyOption func(*ShopifyAdapter)

// WithHTTPClient replaces the adapter's HTTP client
func WithHTTPClient(client *http.Client) ShopifyOption {
	return func(a *ShopifyAdapter) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithLogger sets the adapter's logger
func WithLogger(logger *zap.Logger) ShopifyOption {
	return func(a *ShopifyAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMaxResponseSize overrides the response body size limit
func WithMaxResponseSize(n int) ShopifyOption {
	return func(a *ShopifyAdapter) {
		if n > 0 {
			a.maxResponseSize = n
		}
	}
}

// NewShopifyAdapter creates a new Shopify adapter with the given configuration
func NewShopifyAdapter(config *ShopifyConfig, opts ...ShopifyOption) (*ShopifyAdapter, error) {
	if config == nil {
		return nil, integration.ErrPlatformNotConfigured
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformNotConfigured, err)
	}

	a := &ShopifyAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger:          zap.NewNop(),
		maxResponseSize: maxResponseSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

var _ integration.OrderSource = (*ShopifyAdapter)(nil)

// PlatformCode returns the platform code this adapter handles
func (a *ShopifyAdapter) PlatformCode() integration.PlatformCode {
	return integration.PlatformCodeShopify
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// FetchOrdersRaw returns the order list response body as received.
// The body must be valid JSON; its shape is not checked.
func (a *ShopifyAdapter) FetchOrdersRaw(ctx context.Context, req *integration.OrderPullRequest) (json.RawMessage, error) {
	limit := a.config.Limit
	if req != nil {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		limit = req.Limit
	}

	body, err := a.doRequest(ctx, a.config.OrdersURL(limit))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not JSON", integration.ErrPlatformInvalidResponse)
	}
	return json.RawMessage(body), nil
}

// PullOrders fetches the order list and decodes it
func (a *ShopifyAdapter) PullOrders(ctx context.Context, req *integration.OrderPullRequest) ([]order.Order, error) {
	body, err := a.FetchOrdersRaw(ctx, req)
	if err != nil {
		return nil, err
	}
	orders, err := order.DecodeOrders(body)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("pulled orders",
		zap.String("platform", a.PlatformCode().String()),
		zap.Int("count", len(orders)),
	)
	return orders, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a GET request against the Shopify API
func (a *ShopifyAdapter) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", integration.ErrPlatformRequestFailed, err)
	}
	req.Header.Set(ShopifyAccessTokenHeader, a.config.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(a.maxResponseSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrPlatformRequestFailed, err)
	}

	if err := statusError(resp.StatusCode); err != nil {
		a.logger.Warn("shopify request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("endpoint", redactQuery(endpoint)),
		)
		return nil, err
	}
	if len(body) > a.maxResponseSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrShopifyResponseTooLarge, a.maxResponseSize)
	}
	return body, nil
}

// statusError maps a non-2xx status onto the platform error taxonomy
func statusError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformAuthFailed, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformNotFound, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformUnavailable, status)
	default:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, status)
	}
}

// redactQuery strips the query string for logging
func redactQuery(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	return path
}
