package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidPayload indicates the order payload is neither an order array nor
// an object with an "orders" array
var ErrInvalidPayload = errors.New("order: invalid data format")

// envelope is the platform's list response shape
type envelope struct {
	Orders json.RawMessage `json:"orders"`
}

// DecodeOrders decodes an order list payload.
// Both a bare JSON array and an object carrying an "orders" array are accepted.
func DecodeOrders(raw []byte) ([]Order, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrInvalidPayload
	}

	switch trimmed[0] {
	case '[':
		return decodeArray(trimmed)
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		orders := bytes.TrimSpace(env.Orders)
		if len(orders) == 0 || orders[0] != '[' {
			return nil, ErrInvalidPayload
		}
		return decodeArray(orders)
	default:
		return nil, ErrInvalidPayload
	}
}

func decodeArray(raw []byte) ([]Order, error) {
	orders := make([]Order, 0)
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return orders, nil
}
