// Package session holds per-user dialogue state: the current step of the
// conversation and the in-progress cart. State lives in memory, is owned by
// the dialogue controller, and is serialized per user by Manager.
package session

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CartItem is one accumulated cart line. UnitPrice is captured when the
// product is first added and is never refreshed from the catalog afterwards;
// it is the snapshot that checkout writes into the order.
type CartItem struct {
	ProductID uint
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Cart accumulates a user's selection before checkout. The total is
// recomputed from the stored line snapshots on every mutation, so it can
// never go stale relative to the items.
type Cart struct {
	items map[uint]*CartItem
	total decimal.Decimal
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{items: make(map[uint]*CartItem), total: decimal.Zero}
}

// Add puts qty units of a product into the cart, merging with an existing
// line. The first add fixes the line's unit price; later adds of the same
// product reuse it. qty <= 0 leaves the cart unchanged.
func (c *Cart) Add(productID uint, name string, unitPrice decimal.Decimal, qty int) {
	if qty <= 0 {
		return
	}
	if it, ok := c.items[productID]; ok {
		it.Quantity += qty
	} else {
		c.items[productID] = &CartItem{
			ProductID: productID,
			Name:      name,
			Quantity:  qty,
			UnitPrice: unitPrice,
		}
	}
	c.recompute()
}

// Clear empties the cart. Clearing an empty cart is a no-op.
func (c *Cart) Clear() {
	if len(c.items) == 0 {
		return
	}
	c.items = make(map[uint]*CartItem)
	c.total = decimal.Zero
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Len returns the number of distinct product lines.
func (c *Cart) Len() int { return len(c.items) }

// Total returns the cached total: Σ(unit price at add × quantity).
func (c *Cart) Total() decimal.Decimal { return c.total }

// Items returns the cart lines ordered by product id. The slice is a copy;
// mutating it does not touch the cart.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (c *Cart) recompute() {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	c.total = total
}
