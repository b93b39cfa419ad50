package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pasarmart/checkout-api/internal/cart"
	"github.com/pasarmart/checkout-api/internal/catalog"
	"github.com/pasarmart/checkout-api/internal/offer"
)

var (
	toothbrush = catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	toothpaste = catalog.Product{Name: "toothpaste", Unit: catalog.UnitEach}
	tomatoBox  = catalog.Product{Name: "cherry tomatoes", Unit: catalog.UnitEach}
	apples     = catalog.Product{Name: "apples", Unit: catalog.UnitWeight}
	rice       = catalog.Product{Name: "rice", Unit: catalog.UnitEach}
)

func testCatalog(t *testing.T) *catalog.Memory {
	t.Helper()
	mem := catalog.NewMemory()
	require.NoError(t, mem.Add(toothbrush, 0.99))
	require.NoError(t, mem.Add(toothpaste, 1.79))
	require.NoError(t, mem.Add(tomatoBox, 0.69))
	require.NoError(t, mem.Add(apples, 1.99))
	require.NoError(t, mem.Add(rice, 2.49))
	return mem
}

func checkout(t *testing.T, reg *offer.Registry, add func(*cart.Cart)) (float64, int) {
	t.Helper()
	c := cart.New()
	add(c)
	engine := Engine{Catalog: testCatalog(t), Offers: reg}
	rec, err := engine.Checkout(context.Background(), c)
	require.NoError(t, err)
	return rec.TotalPrice(), len(rec.Discounts())
}

func ptr(v float64) *float64 { return &v }

func TestNoOfferOnPurchasedProduct(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.PercentDiscount, toothbrush, ptr(10)))

	total, discounts := checkout(t, reg, func(c *cart.Cart) {
		require.NoError(t, c.AddItemQuantity(apples, 2.5))
	})
	require.InDelta(t, 2.5*1.99, total, 1e-9)
	require.Equal(t, 0, discounts)
}

func TestThreeForTwo(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.ThreeForTwo, toothbrush, ptr(0)))

	cases := []struct {
		quantity  float64
		total     float64
		discounts int
	}{
		{2, 2 * 0.99, 0},
		{2.9, 2.9 * 0.99, 0},
		{3, 2 * 0.99, 1},
		{6, 4 * 0.99, 1},
		// fractional quantities floor before the offer applies; the
		// fractional remainder is still charged at the unit price
		{6.5, 4.5 * 0.99, 1},
		{7, 5 * 0.99, 1},
	}
	for _, tc := range cases {
		total, discounts := checkout(t, reg, func(c *cart.Cart) {
			require.NoError(t, c.AddItemQuantity(toothbrush, tc.quantity))
		})
		require.InDelta(t, tc.total, total, 1e-9, "quantity %v", tc.quantity)
		require.Equal(t, tc.discounts, discounts, "quantity %v", tc.quantity)
	}
}

func TestTwoForAmount(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.TwoForAmount, tomatoBox, ptr(0.99)))

	cases := []struct {
		quantity  float64
		total     float64
		discounts int
	}{
		{1, 0.69, 0},
		{1.9, 1.9 * 0.69, 0},
		{2, 0.99, 1},
		{2.5, 0.99, 1},
		{3, 0.99 + 0.69, 1},
		{4, 2 * 0.99, 1},
	}
	for _, tc := range cases {
		total, discounts := checkout(t, reg, func(c *cart.Cart) {
			require.NoError(t, c.AddItemQuantity(tomatoBox, tc.quantity))
		})
		require.InDelta(t, tc.total, total, 1e-9, "quantity %v", tc.quantity)
		require.Equal(t, tc.discounts, discounts, "quantity %v", tc.quantity)
	}
}

func TestFiveForAmount(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.FiveForAmount, toothpaste, ptr(7.49)))

	cases := []struct {
		quantity  float64
		total     float64
		discounts int
	}{
		{4, 4 * 1.79, 0},
		{4.9, 4.9 * 1.79, 0},
		{5, 7.49, 1},
		{5.5, 7.49, 1},
		{7, 7.49 + 2*1.79, 1},
		{10, 2 * 7.49, 1},
	}
	for _, tc := range cases {
		total, discounts := checkout(t, reg, func(c *cart.Cart) {
			require.NoError(t, c.AddItemQuantity(toothpaste, tc.quantity))
		})
		require.InDelta(t, tc.total, total, 1e-9, "quantity %v", tc.quantity)
		require.Equal(t, tc.discounts, discounts, "quantity %v", tc.quantity)
	}
}

func TestPercentDiscountUsesExactQuantity(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.PercentDiscount, apples, ptr(10)))

	total, discounts := checkout(t, reg, func(c *cart.Cart) {
		require.NoError(t, c.AddItemQuantity(apples, 2.5))
	})
	require.InDelta(t, 2.5*1.99*0.9, total, 1e-9)
	require.Equal(t, 1, discounts)
}

func TestPercentDiscountOnSingleItem(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.PercentDiscount, rice, ptr(10)))

	total, discounts := checkout(t, reg, func(c *cart.Cart) {
		require.NoError(t, c.AddItem(rice))
	})
	require.InDelta(t, 2.49*0.9, total, 1e-9)
	require.Equal(t, 1, discounts)
}

func TestLegacyPercentAliasStillDiscounts(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.Kind("TEN_PERCENT_DISCOUNT"), rice, ptr(10)))

	total, discounts := checkout(t, reg, func(c *cart.Cart) {
		require.NoError(t, c.AddItemQuantity(rice, 2))
	})
	require.InDelta(t, 2*2.49*0.9, total, 1e-9)
	require.Equal(t, 1, discounts)
}

func TestMissingArgumentYieldsNoDiscount(t *testing.T) {
	reg := offer.NewRegistry()
	reg.Put(offer.Offer{Kind: offer.TwoForAmount, Product: tomatoBox})

	total, discounts := checkout(t, reg, func(c *cart.Cart) {
		require.NoError(t, c.AddItemQuantity(tomatoBox, 4))
	})
	require.InDelta(t, 4*0.69, total, 1e-9)
	require.Equal(t, 0, discounts)
}

func TestUnknownProductAbortsCheckout(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddItemQuantity(toothbrush, 1))
	require.NoError(t, c.AddItemQuantity(catalog.Product{Name: "caviar", Unit: catalog.UnitEach}, 1))

	engine := Engine{Catalog: testCatalog(t), Offers: offer.NewRegistry()}
	rec, err := engine.Checkout(context.Background(), c)
	require.ErrorIs(t, err, catalog.ErrUnknownProduct)
	require.Nil(t, rec)
}

func TestOfferReplacementLastWins(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.ThreeForTwo, toothbrush, ptr(0)))
	require.NoError(t, reg.Set(offer.PercentDiscount, toothbrush, ptr(20)))
	require.Equal(t, 1, reg.Len())

	total, discounts := checkout(t, reg, func(c *cart.Cart) {
		require.NoError(t, c.AddItemQuantity(toothbrush, 3))
	})
	require.InDelta(t, 3*0.99*0.8, total, 1e-9)
	require.Equal(t, 1, discounts)
}

func TestOneLineItemPerEntryOneDiscountPerProduct(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.ThreeForTwo, toothbrush, ptr(0)))

	c := cart.New()
	require.NoError(t, c.AddItemQuantity(toothbrush, 2))
	require.NoError(t, c.AddItemQuantity(apples, 1))
	require.NoError(t, c.AddItemQuantity(toothbrush, 1))

	engine := Engine{Catalog: testCatalog(t), Offers: reg}
	rec, err := engine.Checkout(context.Background(), c)
	require.NoError(t, err)

	items := rec.Items()
	require.Len(t, items, 3)
	require.Equal(t, toothbrush, items[0].Product)
	require.Equal(t, apples, items[1].Product)
	require.Equal(t, toothbrush, items[2].Product)

	// The two toothbrush entries aggregate to three units for the offer.
	discounts := rec.Discounts()
	require.Len(t, discounts, 1)
	require.Equal(t, toothbrush, discounts[0].Product)
	require.InDelta(t, -0.99, discounts[0].Amount, 1e-9)
}

func TestTotalPriceIsStableAcrossCalls(t *testing.T) {
	reg := offer.NewRegistry()
	require.NoError(t, reg.Set(offer.TwoForAmount, tomatoBox, ptr(0.99)))

	c := cart.New()
	require.NoError(t, c.AddItemQuantity(tomatoBox, 3))

	engine := Engine{Catalog: testCatalog(t), Offers: reg}
	rec, err := engine.Checkout(context.Background(), c)
	require.NoError(t, err)

	first := rec.TotalPrice()
	require.InDelta(t, first, rec.TotalPrice(), 1e-12)
	require.InDelta(t, first, rec.TotalPrice(), 1e-12)
}

func TestDiscountDescriptions(t *testing.T) {
	d, ok := Discount(offer.Offer{Kind: offer.TwoForAmount, Product: tomatoBox, Argument: ptr(0.99)}, 2, 0.69)
	require.True(t, ok)
	require.Equal(t, "2 for 0.99", d.Description)

	d, ok = Discount(offer.Offer{Kind: offer.FiveForAmount, Product: toothpaste, Argument: ptr(7.49)}, 5, 1.79)
	require.True(t, ok)
	require.Equal(t, "5 for 7.49", d.Description)

	d, ok = Discount(offer.Offer{Kind: offer.PercentDiscount, Product: rice, Argument: ptr(10)}, 1, 2.49)
	require.True(t, ok)
	require.Equal(t, "10% off", d.Description)

	d, ok = Discount(offer.Offer{Kind: offer.ThreeForTwo, Product: toothbrush, Argument: ptr(0)}, 3, 0.99)
	require.True(t, ok)
	require.Equal(t, "3 for 2", d.Description)
}
