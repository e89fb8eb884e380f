package cart

import "guitarla/internal/domain"

// The functions below never modify their input. Each returns either the input unchanged
// with changed=false, or a freshly allocated cart with changed=true.

// Add appends item with quantity 1, or bumps the existing line unless it is already at MaxQuantity.
func Add(c domain.Cart, item domain.Item) (domain.Cart, bool) {
	if item.ID <= 0 {
		return c, false
	}
	if i := c.Index(item.ID); i >= 0 {
		if c[i].Quantity >= domain.MaxQuantity {
			return c, false
		}
		return withQuantity(c, i, c[i].Quantity+1), true
	}
	next := make(domain.Cart, len(c), len(c)+1)
	copy(next, c)
	return append(next, domain.CartLine{Item: item, Quantity: domain.MinQuantity}), true
}

// Remove drops the line for id.
func Remove(c domain.Cart, id int) (domain.Cart, bool) {
	i := c.Index(id)
	if i < 0 {
		return c, false
	}
	next := make(domain.Cart, 0, len(c)-1)
	next = append(next, c[:i]...)
	return append(next, c[i+1:]...), true
}

func Increase(c domain.Cart, id int) (domain.Cart, bool) {
	i := c.Index(id)
	if i < 0 || c[i].Quantity >= domain.MaxQuantity {
		return c, false
	}
	return withQuantity(c, i, c[i].Quantity+1), true
}

// Decrease never takes a line below MinQuantity; use Remove to drop it.
func Decrease(c domain.Cart, id int) (domain.Cart, bool) {
	i := c.Index(id)
	if i < 0 || c[i].Quantity <= domain.MinQuantity {
		return c, false
	}
	return withQuantity(c, i, c[i].Quantity-1), true
}

// Normalize returns a copy of c that satisfies the cart invariants: lines without a
// positive id are dropped, later duplicates of an id are dropped and quantities are
// clamped into [MinQuantity, MaxQuantity].
func Normalize(c domain.Cart) domain.Cart {
	out := make(domain.Cart, 0, len(c))
	seen := make(map[int]struct{}, len(c))
	for _, line := range c {
		if line.ID <= 0 {
			continue
		}
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		line.Quantity = min(max(line.Quantity, domain.MinQuantity), domain.MaxQuantity)
		out = append(out, line)
	}
	return out
}

func withQuantity(c domain.Cart, i, qty int) domain.Cart {
	next := make(domain.Cart, len(c))
	copy(next, c)
	next[i].Quantity = qty
	return next
}
