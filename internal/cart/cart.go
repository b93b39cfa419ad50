package cart

import (
	"errors"
	"fmt"

	"github.com/pasarmart/checkout-api/internal/catalog"
)

// ErrInvalidQuantity is returned when a non-positive quantity is added.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrInvalidProduct is returned when an entry carries no product identity.
var ErrInvalidProduct = errors.New("product is required")

// Entry is one add operation: a product and the quantity added.
type Entry struct {
	Product  catalog.Product
	Quantity float64
}

// ProductQuantity pairs a product with its total quantity across the cart.
type ProductQuantity struct {
	Product  catalog.Product
	Quantity float64
}

// Cart accumulates entries in insertion order and maintains the aggregated
// quantity per product. The aggregation always equals the sum over entries.
// A Cart is owned by a single caller for the lifetime of one checkout.
type Cart struct {
	entries []Entry
	totals  map[catalog.Product]float64
	order   []catalog.Product // products in first-seen order
}

// New constructs an empty cart.
func New() *Cart {
	return &Cart{totals: make(map[catalog.Product]float64)}
}

// AddItem adds a single unit of the product.
func (c *Cart) AddItem(p catalog.Product) error {
	return c.AddItemQuantity(p, 1)
}

// AddItemQuantity appends an entry and updates the aggregated quantity.
func (c *Cart) AddItemQuantity(p catalog.Product, quantity float64) error {
	if p.IsZero() {
		return fmt.Errorf("add item: %w", ErrInvalidProduct)
	}
	if quantity <= 0 {
		return fmt.Errorf("add %q: %w", p.Name, ErrInvalidQuantity)
	}
	c.entries = append(c.entries, Entry{Product: p, Quantity: quantity})
	if _, seen := c.totals[p]; !seen {
		c.order = append(c.order, p)
	}
	c.totals[p] += quantity
	return nil
}

// Entries returns the entries in the order they were added.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// AggregatedQuantities returns the per-product totals in the order each
// product was first added. This order determines where a product's discount
// appears on the receipt.
func (c *Cart) AggregatedQuantities() []ProductQuantity {
	out := make([]ProductQuantity, 0, len(c.order))
	for _, p := range c.order {
		out = append(out, ProductQuantity{Product: p, Quantity: c.totals[p]})
	}
	return out
}

// Len reports the number of entries.
func (c *Cart) Len() int { return len(c.entries) }
