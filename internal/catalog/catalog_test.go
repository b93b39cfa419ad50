package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryUnitPrice(t *testing.T) {
	mem := NewMemory()
	apples := Product{Name: "apples", Unit: UnitWeight}
	require.NoError(t, mem.Add(apples, 1.99))

	price, err := mem.UnitPrice(context.Background(), apples)
	require.NoError(t, err)
	require.Equal(t, 1.99, price)
}

func TestMemoryUnknownProduct(t *testing.T) {
	mem := NewMemory()
	_, err := mem.UnitPrice(context.Background(), Product{Name: "caviar", Unit: UnitEach})
	require.ErrorIs(t, err, ErrUnknownProduct)

	_, err = mem.ProductWithName(context.Background(), "caviar")
	require.ErrorIs(t, err, ErrUnknownProduct)
}

func TestMemoryRejectsNonPositivePrice(t *testing.T) {
	mem := NewMemory()
	err := mem.Add(Product{Name: "rice", Unit: UnitEach}, 0)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestMemoryProductWithName(t *testing.T) {
	mem := NewMemory()
	rice := Product{Name: "rice", Unit: UnitEach}
	require.NoError(t, mem.Add(rice, 2.49))

	got, err := mem.ProductWithName(context.Background(), "rice")
	require.NoError(t, err)
	require.Equal(t, rice, got)
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("each")
	require.NoError(t, err)
	require.Equal(t, UnitEach, u)

	u, err = ParseUnit("KILO")
	require.NoError(t, err)
	require.Equal(t, UnitWeight, u)

	_, err = ParseUnit("CRATE")
	require.Error(t, err)
}
