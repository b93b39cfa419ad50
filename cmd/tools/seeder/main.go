package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/pasarmart/checkout-api/internal/catalog"
	"github.com/pasarmart/checkout-api/internal/ingest"
	"github.com/pasarmart/checkout-api/internal/obs"
	"github.com/pasarmart/checkout-api/internal/offer"
)

// Seeds the products and offers tables from the CSV fixture files.
func main() {
	productsPath := flag.String("products", "fixtures/products.csv", "path to the products csv")
	offersPath := flag.String("offers", "", "path to the offers csv (optional)")
	flag.Parse()

	_ = godotenv.Load()
	logger := obs.NewLogger(envOrDefault("OBS_LOG_FORMAT", "console"), envOrDefault("OBS_LOG_LEVEL", "info"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	if err := catalog.Migrate(dbURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	reader := ingest.NewReader(logger)
	store := &catalog.PG{Pool: pool}

	productRows, skipped, err := reader.ProductsFile(*productsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("read products csv")
	}
	seeded := 0
	for _, row := range productRows {
		unit, err := catalog.ParseUnit(row.Unit)
		if err != nil {
			logger.Warn().Str("product", row.Name).Err(err).Msg("skipping product")
			continue
		}
		p := catalog.Product{Name: row.Name, Unit: unit}
		if err := store.Upsert(ctx, p, row.Price); err != nil {
			logger.Fatal().Err(err).Str("product", row.Name).Msg("upsert product")
		}
		seeded++
	}
	logger.Info().Int("products", seeded).Int("skipped", skipped).Msg("products seeded")

	if *offersPath == "" {
		return
	}

	offerRows, _, err := reader.OffersFile(*offersPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("read offers csv")
	}
	offerStore := &offer.Store{Pool: pool}
	offers := reader.ResolveOffers(ctx, offerRows, store)
	for _, o := range offers {
		if err := offerStore.Upsert(ctx, o); err != nil {
			logger.Fatal().Err(err).Str("product", o.Product.Name).Msg("upsert offer")
		}
	}
	logger.Info().Int("offers", len(offers)).Msg("offers seeded")
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
