package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/bytedance/sonic"
	"guitarla/internal/domain"
	cartsvc "guitarla/internal/service/cart"
)

//go:embed guitars.json
var guitarsJSON []byte

// Guitars returns the built-in guitar collection in display order.
func Guitars() ([]domain.Item, error) {
	var items []domain.Item
	if err := sonic.Unmarshal(guitarsJSON, &items); err != nil {
		return nil, fmt.Errorf("decode embedded catalog: %w", err)
	}
	return items, nil
}

// DemoCart picks a few guitars for manual testing: one of the first item and two of the second.
func DemoCart(items []domain.Item) domain.Cart {
	var c domain.Cart
	if len(items) > 0 {
		c, _ = cartsvc.Add(c, items[0])
	}
	if len(items) > 1 {
		c, _ = cartsvc.Add(c, items[1])
		c, _ = cartsvc.Increase(c, items[1].ID)
	}
	return c
}

// Apply overwrites the slot with the demo cart. Running it twice yields the same slot content.
func Apply(ctx context.Context, slot cartsvc.Persistence, items []domain.Item) (domain.Cart, error) {
	c := DemoCart(items)
	data, err := cartsvc.Encode(c)
	if err != nil {
		return nil, err
	}
	if err := slot.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("save demo cart: %w", err)
	}
	return c, nil
}
