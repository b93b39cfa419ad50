package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pasarmart/checkout-api/internal/cart"
	"github.com/pasarmart/checkout-api/internal/catalog"
	"github.com/pasarmart/checkout-api/internal/offer"
)

func ptrFloat(v float64) *float64 { return &v }

func TestNewTellerRequiresCatalog(t *testing.T) {
	_, err := NewTeller(nil, nil)
	require.Error(t, err)
}

func TestTellerChecksOutWithActiveOffers(t *testing.T) {
	mem := catalog.NewMemory()
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	require.NoError(t, mem.Add(toothbrush, 0.99))

	teller, err := NewTeller(mem, nil)
	require.NoError(t, err)
	require.NoError(t, teller.AddSpecialOffer(offer.ThreeForTwo, toothbrush, ptrFloat(0)))

	c := cart.New()
	require.NoError(t, c.AddItemQuantity(toothbrush, 3))

	rec, err := teller.ChecksOutArticlesFrom(context.Background(), c)
	require.NoError(t, err)
	require.InDelta(t, 2*0.99, rec.TotalPrice(), 1e-9)
}

func TestReplaceOffersSwapsRegistry(t *testing.T) {
	mem := catalog.NewMemory()
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	require.NoError(t, mem.Add(toothbrush, 0.99))

	teller, err := NewTeller(mem, nil)
	require.NoError(t, err)
	require.NoError(t, teller.AddSpecialOffer(offer.ThreeForTwo, toothbrush, ptrFloat(0)))
	require.Equal(t, 1, teller.OfferCount())

	teller.ReplaceOffers(nil)
	require.Equal(t, 0, teller.OfferCount())

	fresh := offer.NewRegistry()
	fresh.Put(offer.Offer{Kind: offer.PercentDiscount, Product: toothbrush, Argument: ptrFloat(50)})
	teller.ReplaceOffers(fresh)

	c := cart.New()
	require.NoError(t, c.AddItemQuantity(toothbrush, 2))
	rec, err := teller.ChecksOutArticlesFrom(context.Background(), c)
	require.NoError(t, err)
	require.InDelta(t, 2*0.99*0.5, rec.TotalPrice(), 1e-9)
}
