package ecommerce

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ShopifyConfig holds configuration for the Shopify Admin REST API
type ShopifyConfig struct {
	// StoreDomain is the shop's host, e.g. example.myshopify.com
	StoreDomain string
	// APIVersion is the Admin API version segment of the URL
	APIVersion string
	// AccessToken is the Admin API access token
	AccessToken string
	// BaseURL overrides the scheme and host derived from StoreDomain
	BaseURL string
	// Limit is the default page size for order list calls
	Limit int
	// TimeoutSeconds is the HTTP request timeout, 0 disables it
	TimeoutSeconds int
}

const (
	// ShopifyDefaultStoreDomain is the store the service was built for
	ShopifyDefaultStoreDomain = "sniffandbark.com.co"
	// ShopifyDefaultAPIVersion is the Admin API version used for order calls
	ShopifyDefaultAPIVersion = "2024-01"
	// ShopifyAccessTokenHeader carries the Admin API access token
	ShopifyAccessTokenHeader = "X-Shopify-Access-Token"
	// ShopifyDefaultLimit is the largest page Shopify returns
	ShopifyDefaultLimit = 250
)

// Errors for Shopify configuration
var (
	ErrShopifyConfigMissingStore   = errors.New("shopify: store domain is required")
	ErrShopifyConfigInvalidBaseURL = errors.New("shopify: invalid base URL")
)

// NewShopifyConfig creates a new Shopify configuration with defaults
func NewShopifyConfig(storeDomain, accessToken string) *ShopifyConfig {
	return &ShopifyConfig{
		StoreDomain: storeDomain,
		APIVersion:  ShopifyDefaultAPIVersion,
		AccessToken: accessToken,
		Limit:       ShopifyDefaultLimit,
	}
}

// Validate validates the Shopify configuration and fills in defaults.
// An empty access token is accepted; the platform rejects such calls with 401.
func (c *ShopifyConfig) Validate() error {
	if c.StoreDomain == "" && c.BaseURL == "" {
		return ErrShopifyConfigMissingStore
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrShopifyConfigInvalidBaseURL, c.BaseURL)
		}
	}
	if c.APIVersion == "" {
		c.APIVersion = ShopifyDefaultAPIVersion
	}
	if c.Limit <= 0 || c.Limit > ShopifyDefaultLimit {
		c.Limit = ShopifyDefaultLimit
	}
	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 0
	}
	return nil
}

// OrdersURL returns the order list endpoint for the given page size
func (c *ShopifyConfig) OrdersURL(limit int) string {
	base := c.BaseURL
	if base == "" {
		base = "https://" + c.StoreDomain
	}
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s/admin/api/%s/orders.json?limit=%d", base, c.APIVersion, limit)
}
