package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 5
)

// CartLine is an item together with the number of units in the cart.
type CartLine struct {
	Item
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with pairwise distinct item ids.
type Cart []CartLine

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

// Index returns the position of the line for id, or -1.
func (c Cart) Index(id int) int {
	return slices.IndexFunc(c, func(l CartLine) bool { return l.ID == id })
}

// Equal reports whether both carts hold the same lines in the same order.
// Prices are compared by value, so "299" and "299.00" are equal.
func (c Cart) Equal(other Cart) bool {
	return slices.EqualFunc(c, other, func(a, b CartLine) bool {
		return a.ID == b.ID &&
			a.Name == b.Name &&
			a.Image == b.Image &&
			a.Description == b.Description &&
			a.Price.Equal(b.Price) &&
			a.Quantity == b.Quantity
	})
}
