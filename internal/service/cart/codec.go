package cart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"guitarla/internal/domain"
)

var errEmptyPayload = errors.New("empty payload")

// Encode serializes the cart as a JSON array. An empty cart is written as [].
func Encode(c domain.Cart) ([]byte, error) {
	if c == nil {
		c = domain.Cart{}
	}
	b, err := sonic.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return b, nil
}

// Decode parses a stored cart and normalizes it. A JSON null decodes to the empty cart.
func Decode(b []byte) (domain.Cart, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("decode cart: %w", errEmptyPayload)
	}
	var c domain.Cart
	if err := sonic.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return Normalize(c), nil
}
