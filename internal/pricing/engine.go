package pricing

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/pasarmart/checkout-api/internal/cart"
	"github.com/pasarmart/checkout-api/internal/catalog"
	"github.com/pasarmart/checkout-api/internal/offer"
	"github.com/pasarmart/checkout-api/internal/receipt"
)

// Engine computes a receipt from a cart against a catalog and an offer
// registry. A checkout is a pure function of those three snapshots; the
// engine holds no state of its own between calls.
type Engine struct {
	Catalog catalog.Catalog
	Offers  *offer.Registry
}

// Checkout prices every cart entry and applies at most one discount per
// distinct product. A product missing from the catalog aborts the whole
// checkout; no partial receipt is ever returned.
func (e Engine) Checkout(ctx context.Context, c *cart.Cart) (*receipt.Receipt, error) {
	rec := receipt.New()

	// One line item per entry, in the order items were added. The same
	// product added twice yields two line items.
	for _, entry := range c.Entries() {
		price, err := e.Catalog.UnitPrice(ctx, entry.Product)
		if err != nil {
			return nil, fmt.Errorf("price line item: %w", err)
		}
		rec.AddProduct(entry.Product, entry.Quantity, price, entry.Quantity*price)
	}

	// Discounts use the aggregated quantity per product, in the order each
	// product first appeared in the cart.
	for _, pq := range c.AggregatedQuantities() {
		o, ok := e.Offers.Lookup(pq.Product)
		if !ok {
			continue
		}
		price, err := e.Catalog.UnitPrice(ctx, pq.Product)
		if err != nil {
			return nil, fmt.Errorf("price offer: %w", err)
		}
		if d, ok := Discount(o, pq.Quantity, price); ok {
			rec.AddDiscount(d)
		}
	}

	return rec, nil
}

// Discount computes the discount an offer yields at the given aggregated
// quantity and unit price. The second return is false when the offer does
// not apply, including when an amount-based offer is missing its argument;
// a missing argument is lenient by contract because offer data may come
// from loosely validated sources.
//
// Unit-count offers floor the quantity before applying; the percentage
// offer uses the exact fractional quantity.
func Discount(o offer.Offer, quantity, unitPrice float64) (receipt.Discount, bool) {
	units := int(math.Floor(quantity))

	switch o.Kind {
	case offer.ThreeForTwo:
		if units <= 2 {
			return receipt.Discount{}, false
		}
		free := units / 3
		return receipt.Discount{
			Product:     o.Product,
			Description: "3 for 2",
			Amount:      -float64(free) * unitPrice,
		}, true

	case offer.TwoForAmount:
		if o.Argument == nil || units < 2 {
			return receipt.Discount{}, false
		}
		paid := float64(units/2)*(*o.Argument) + float64(units%2)*unitPrice
		return receipt.Discount{
			Product:     o.Product,
			Description: "2 for " + formatArgument(*o.Argument),
			Amount:      paid - quantity*unitPrice,
		}, true

	case offer.FiveForAmount:
		if o.Argument == nil || units < 5 {
			return receipt.Discount{}, false
		}
		paid := float64(units/5)*(*o.Argument) + float64(units%5)*unitPrice
		return receipt.Discount{
			Product:     o.Product,
			Description: "5 for " + formatArgument(*o.Argument),
			Amount:      paid - quantity*unitPrice,
		}, true

	case offer.PercentDiscount:
		if o.Argument == nil || *o.Argument <= 0 {
			return receipt.Discount{}, false
		}
		return receipt.Discount{
			Product:     o.Product,
			Description: formatArgument(*o.Argument) + "% off",
			Amount:      -(quantity * unitPrice * *o.Argument / 100),
		}, true
	}

	return receipt.Discount{}, false
}

func formatArgument(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
