package offer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pasarmart/checkout-api/internal/catalog"
)

// Store persists offers in Postgres. The registry consulted during checkouts
// is an in-memory snapshot loaded from here at startup.
type Store struct {
	Pool *pgxpool.Pool
}

// Upsert inserts or replaces the offer for its product.
func (s *Store) Upsert(ctx context.Context, o Offer) error {
	if s == nil || s.Pool == nil {
		return errors.New("offer store not configured")
	}
	if o.Product.IsZero() {
		return fmt.Errorf("product required: %w", ErrInvalidOfferSpec)
	}
	var arg *float64
	if o.Argument != nil {
		v := *o.Argument
		arg = &v
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO offers (product_name, product_unit, kind, argument)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (product_name) DO UPDATE
		 SET product_unit = EXCLUDED.product_unit, kind = EXCLUDED.kind, argument = EXCLUDED.argument, updated_at = now()`,
		o.Product.Name, string(o.Product.Unit), string(o.Kind), arg,
	)
	if err != nil {
		return fmt.Errorf("upsert offer for %q: %w", o.Product.Name, err)
	}
	return nil
}

// All loads every stored offer ordered by product name.
func (s *Store) All(ctx context.Context) ([]Offer, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("offer store not configured")
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT product_name, product_unit, kind, argument FROM offers ORDER BY product_name`)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var (
			name, unit, kind string
			argument         *float64
		)
		if err := rows.Scan(&name, &unit, &kind, &argument); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, Offer{
			Kind:     Kind(kind),
			Product:  catalog.Product{Name: name, Unit: catalog.Unit(unit)},
			Argument: argument,
		})
	}
	return offers, rows.Err()
}
