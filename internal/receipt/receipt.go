package receipt

import (
	"github.com/google/uuid"

	"github.com/pasarmart/checkout-api/internal/catalog"
)

// LineItem is one priced entry on the receipt, corresponding to one cart
// entry. Price is the unit price; TotalPrice is quantity times unit price.
type LineItem struct {
	Product    catalog.Product `json:"product"`
	Quantity   float64         `json:"quantity"`
	Price      float64         `json:"price"`
	TotalPrice float64         `json:"totalPrice"`
}

// Discount is a negative price adjustment tied to one product. Amount is
// always less than or equal to zero.
type Discount struct {
	Product     catalog.Product `json:"product"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
}

// Receipt is the sole output of a checkout: ordered line items plus ordered
// discounts. It is created fresh per checkout and not mutated after being
// returned to the caller.
type Receipt struct {
	id        string
	items     []LineItem
	discounts []Discount
}

// New constructs an empty receipt with a fresh identifier.
func New() *Receipt {
	return &Receipt{id: uuid.NewString()}
}

// ID returns the receipt identifier.
func (r *Receipt) ID() string { return r.id }

// AddProduct appends a line item.
func (r *Receipt) AddProduct(p catalog.Product, quantity, price, totalPrice float64) {
	r.items = append(r.items, LineItem{Product: p, Quantity: quantity, Price: price, TotalPrice: totalPrice})
}

// AddDiscount appends a discount.
func (r *Receipt) AddDiscount(d Discount) {
	r.discounts = append(r.discounts, d)
}

// Items returns the line items in checkout order.
func (r *Receipt) Items() []LineItem {
	out := make([]LineItem, len(r.items))
	copy(out, r.items)
	return out
}

// Discounts returns the discounts in checkout order.
func (r *Receipt) Discounts() []Discount {
	out := make([]Discount, len(r.discounts))
	copy(out, r.discounts)
	return out
}

// TotalPrice recomputes the total from the current line items and discounts
// on every call. Discount amounts are negative, so this is a plain sum.
func (r *Receipt) TotalPrice() float64 {
	var total float64
	for _, item := range r.items {
		total += item.TotalPrice
	}
	for _, d := range r.discounts {
		total += d.Amount
	}
	return total
}
