package integration

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/orderexport/backend/internal/domain/order"
)

// ---------------------------------------------------------------------------
// EcommercePlatform Errors
// ---------------------------------------------------------------------------

var (
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformAuthFailed      = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")
	ErrPlatformNotFound        = errors.New("integration: platform resource not found")
)

// IsUpstreamError reports whether err came from the order platform
// (network, auth, status or body errors), as opposed to a local decoding error.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrPlatformNotConfigured) ||
		errors.Is(err, ErrPlatformUnavailable) ||
		errors.Is(err, ErrPlatformRequestFailed) ||
		errors.Is(err, ErrPlatformInvalidResponse) ||
		errors.Is(err, ErrPlatformAuthFailed) ||
		errors.Is(err, ErrPlatformRateLimited) ||
		errors.Is(err, ErrPlatformNotFound)
}

// ---------------------------------------------------------------------------
// PlatformCode represents the type of e-commerce platform
// ---------------------------------------------------------------------------

// PlatformCode represents the type of e-commerce platform
type PlatformCode string

const (
	// PlatformCodeShopify represents a Shopify store
	PlatformCodeShopify PlatformCode = "SHOPIFY"
)

// IsValid returns true if the platform code is valid
func (c PlatformCode) IsValid() bool {
	return c == PlatformCodeShopify
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the platform
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformCodeShopify:
		return "Shopify"
	default:
		return string(c)
	}
}

// ---------------------------------------------------------------------------
// Order pulling
// ---------------------------------------------------------------------------

// MaxPullLimit is the largest page the platform returns in a single list call
const MaxPullLimit = 250

// OrderPullRequest represents a request to pull orders from a platform
type OrderPullRequest struct {
	// Limit is the number of orders to request (1..MaxPullLimit)
	Limit int
}

// Validate normalizes the request, clamping Limit into range
func (r *OrderPullRequest) Validate() error {
	if r.Limit < 1 || r.Limit > MaxPullLimit {
		r.Limit = MaxPullLimit
	}
	return nil
}

// ---------------------------------------------------------------------------
// OrderSource Port
// ---------------------------------------------------------------------------

// OrderSource is the port to the store platform's order API.
// Implementations live in the infrastructure layer.
type OrderSource interface {
	// PlatformCode returns the platform this source reads from
	PlatformCode() PlatformCode

	// FetchOrdersRaw returns the platform's order list response body unmodified
	FetchOrdersRaw(ctx context.Context, req *OrderPullRequest) (json.RawMessage, error)

	// PullOrders fetches and decodes the order list
	PullOrders(ctx context.Context, req *OrderPullRequest) ([]order.Order, error)
}
