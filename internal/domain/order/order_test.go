package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrders(t *testing.T) {
	t.Run("decodes envelope", func(t *testing.T) {
		raw := []byte(`{"orders":[{"id":1,"name":"#1001","billing_address":{"name":"Ada"},"line_items":[{"sku":"CA12"},{"sku":null},{"title":"Tag"}]}]}`)

		orders, err := DecodeOrders(raw)
		require.NoError(t, err)
		require.Len(t, orders, 1)

		o := orders[0]
		assert.Equal(t, int64(1), o.ID)
		assert.Equal(t, "#1001", o.Name)
		assert.Equal(t, "Ada", o.CustomerName())
		require.Len(t, o.LineItems, 3)
		assert.Equal(t, "CA12", o.LineItems[0].SKUValue())
		assert.True(t, o.LineItems[0].HasSKU())
		assert.Nil(t, o.LineItems[1].SKU)
		assert.False(t, o.LineItems[1].HasSKU())
		assert.Equal(t, "", o.LineItems[2].SKUValue())
	})

	t.Run("decodes bare array", func(t *testing.T) {
		orders, err := DecodeOrders([]byte(` [{"id":2,"name":"#1002","line_items":[]}] `))
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "#1002", orders[0].Name)
		assert.False(t, orders[0].HasLineItems())
		assert.Equal(t, "", orders[0].CustomerName())
	})

	t.Run("empty array is valid", func(t *testing.T) {
		orders, err := DecodeOrders([]byte(`{"orders":[]}`))
		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.NotNil(t, orders)
	})

	invalid := map[string]string{
		"empty body":         ``,
		"string":             `"orders"`,
		"number":             `42`,
		"object w/o orders":  `{"errors":"Not Found"}`,
		"null orders":        `{"orders":null}`,
		"object orders":      `{"orders":{"id":1}}`,
		"malformed":          `{"orders":[`,
		"wrong element type": `[1,2,3]`,
	}
	for name, raw := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeOrders([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestTruncate(t *testing.T) {
	orders := make([]Order, 5)
	for i := range orders {
		orders[i] = Order{ID: int64(i)}
	}

	assert.Len(t, Truncate(orders, 3), 3)
	assert.Equal(t, int64(2), Truncate(orders, 3)[2].ID)
	assert.Len(t, Truncate(orders, 5), 5)
	assert.Len(t, Truncate(orders, 10), 5)
	assert.Empty(t, Truncate(orders, 0))
	assert.Empty(t, Truncate(orders, -1))
	assert.Empty(t, Truncate(nil, 3))
}
