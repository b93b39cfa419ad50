package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the catalog schema migrations to the target database.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	url := databaseURL
	if after, ok := strings.CutPrefix(url, "postgres://"); ok {
		url = "pgx5://" + after
	} else if after, ok := strings.CutPrefix(url, "postgresql://"); ok {
		url = "pgx5://" + after
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

// PG is a Postgres-backed catalog.
type PG struct {
	Pool *pgxpool.Pool
}

// UnitPrice implements Catalog.
func (s *PG) UnitPrice(ctx context.Context, p Product) (float64, error) {
	if s == nil || s.Pool == nil {
		return 0, errors.New("catalog store not configured")
	}
	var price float64
	err := s.Pool.QueryRow(ctx,
		`SELECT price FROM products WHERE name = $1 AND unit = $2`,
		p.Name, string(p.Unit),
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%q: %w", p.Name, ErrUnknownProduct)
		}
		return 0, fmt.Errorf("load unit price: %w", err)
	}
	return price, nil
}

// ProductWithName implements Catalog.
func (s *PG) ProductWithName(ctx context.Context, name string) (Product, error) {
	if s == nil || s.Pool == nil {
		return Product{}, errors.New("catalog store not configured")
	}
	var unit string
	err := s.Pool.QueryRow(ctx,
		`SELECT unit FROM products WHERE name = $1`, name,
	).Scan(&unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("%q: %w", name, ErrUnknownProduct)
		}
		return Product{}, fmt.Errorf("load product: %w", err)
	}
	return Product{Name: name, Unit: Unit(unit)}, nil
}

// Upsert inserts or replaces a product listing. Used by the seeder.
func (s *PG) Upsert(ctx context.Context, p Product, price float64) error {
	if s == nil || s.Pool == nil {
		return errors.New("catalog store not configured")
	}
	if p.IsZero() {
		return errors.New("product is required")
	}
	if price <= 0 {
		return fmt.Errorf("product %q: %w", p.Name, ErrInvalidPrice)
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO products (name, unit, price)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET unit = EXCLUDED.unit, price = EXCLUDED.price, updated_at = now()`,
		p.Name, string(p.Unit), price,
	)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Name, err)
	}
	return nil
}
