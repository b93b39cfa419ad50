package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/pasarmart/checkout-api/internal/cart"
	"github.com/pasarmart/checkout-api/internal/catalog"
	"github.com/pasarmart/checkout-api/internal/offer"
	"github.com/pasarmart/checkout-api/internal/pricing"
	"github.com/pasarmart/checkout-api/internal/receipt"
)

// Teller owns the catalog and the active offer registry and turns carts into
// receipts. Each checkout sees a consistent registry snapshot: offer updates
// swap state under the lock, never mutate it mid-checkout.
type Teller struct {
	catalog catalog.Catalog

	mu     sync.RWMutex
	offers *offer.Registry
}

// NewTeller constructs a teller. A nil registry starts empty.
func NewTeller(cat catalog.Catalog, offers *offer.Registry) (*Teller, error) {
	if cat == nil {
		return nil, errors.New("teller requires a catalog")
	}
	if offers == nil {
		offers = offer.NewRegistry()
	}
	return &Teller{catalog: cat, offers: offers}, nil
}

// AddSpecialOffer registers an offer, replacing any prior offer for the same
// product.
func (t *Teller) AddSpecialOffer(kind offer.Kind, p catalog.Product, argument *float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offers.Set(kind, p, argument)
}

// ReplaceOffers swaps in a freshly loaded registry, e.g. after a reload from
// the offer store.
func (t *Teller) ReplaceOffers(offers *offer.Registry) {
	if offers == nil {
		offers = offer.NewRegistry()
	}
	t.mu.Lock()
	t.offers = offers
	t.mu.Unlock()
}

// ProductWithName resolves a product identity via the catalog.
func (t *Teller) ProductWithName(ctx context.Context, name string) (catalog.Product, error) {
	return t.catalog.ProductWithName(ctx, name)
}

// OfferCount reports the number of active offers.
func (t *Teller) OfferCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.offers.Len()
}

// ChecksOutArticlesFrom prices the cart and returns the receipt, or an error
// wrapping catalog.ErrUnknownProduct when a cart product is not listed.
func (t *Teller) ChecksOutArticlesFrom(ctx context.Context, c *cart.Cart) (*receipt.Receipt, error) {
	t.mu.RLock()
	offers := t.offers
	t.mu.RUnlock()

	engine := pricing.Engine{Catalog: t.catalog, Offers: offers}
	return engine.Checkout(ctx, c)
}
