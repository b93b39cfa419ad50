package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownProduct indicates the requested product is not in the catalog.
var ErrUnknownProduct = errors.New("product not in catalog")

// ErrInvalidPrice is returned when a non-positive unit price is registered.
var ErrInvalidPrice = errors.New("unit price must be positive")

// Catalog resolves products and their unit prices. Implementations are
// expected to be read-only during a checkout.
type Catalog interface {
	// UnitPrice returns the price for one unit of the product, failing with
	// ErrUnknownProduct when the product is not listed.
	UnitPrice(ctx context.Context, p Product) (float64, error)
	// ProductWithName resolves a product identity by its name.
	ProductWithName(ctx context.Context, name string) (Product, error)
}

// Memory is an in-process catalog used for CSV-sourced deployments and tests.
type Memory struct {
	prices map[Product]float64
	byName map[string]Product
}

// NewMemory constructs an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		prices: make(map[Product]float64),
		byName: make(map[string]Product),
	}
}

// Add registers a product with its unit price.
func (m *Memory) Add(p Product, price float64) error {
	if p.IsZero() {
		return errors.New("product is required")
	}
	if price <= 0 {
		return fmt.Errorf("product %q: %w", p.Name, ErrInvalidPrice)
	}
	m.prices[p] = price
	m.byName[p.Name] = p
	return nil
}

// UnitPrice implements Catalog.
func (m *Memory) UnitPrice(_ context.Context, p Product) (float64, error) {
	price, ok := m.prices[p]
	if !ok {
		return 0, fmt.Errorf("%q: %w", p.Name, ErrUnknownProduct)
	}
	return price, nil
}

// ProductWithName implements Catalog.
func (m *Memory) ProductWithName(_ context.Context, name string) (Product, error) {
	p, ok := m.byName[name]
	if !ok {
		return Product{}, fmt.Errorf("%q: %w", name, ErrUnknownProduct)
	}
	return p, nil
}

// Len reports the number of listed products.
func (m *Memory) Len() int { return len(m.prices) }
