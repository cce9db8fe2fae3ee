// Package order contains the read-only order model fetched from the store platform.
//
// Orders are immutable once decoded. They are held in memory for the lifetime of
// a single request or export run and are never persisted.
package order

// Order is a store order as returned by the platform's order API
type Order struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	BillingAddress *BillingAddress `json:"billing_address"`
	LineItems      []LineItem      `json:"line_items"`
}

// BillingAddress is the billing contact of an order
type BillingAddress struct {
	Name string `json:"name"`
}

// LineItem is a single purchased item of an order.
// A missing or empty SKU denotes a custom engraved item.
type LineItem struct {
	SKU      *string `json:"sku"`
	Title    string  `json:"title,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
}

// CustomerName returns the billing contact name, or "" when the order has no billing address
func (o Order) CustomerName() string {
	if o.BillingAddress == nil {
		return ""
	}
	return o.BillingAddress.Name
}

// HasLineItems returns true if the order has at least one line item
func (o Order) HasLineItems() bool {
	return len(o.LineItems) > 0
}

// SKUValue returns the SKU or "" when it is absent
func (li LineItem) SKUValue() string {
	if li.SKU == nil {
		return ""
	}
	return *li.SKU
}

// HasSKU returns true if the line item carries a non-empty SKU
func (li LineItem) HasSKU() bool {
	return li.SKU != nil && *li.SKU != ""
}

// Truncate returns the first limit orders. A non-positive limit returns no orders.
// The returned slice shares its backing array with orders.
func Truncate(orders []Order, limit int) []Order {
	if limit <= 0 {
		return orders[:0]
	}
	if limit > len(orders) {
		return orders
	}
	return orders[:limit]
}
