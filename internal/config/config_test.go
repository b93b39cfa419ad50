package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadPostgresDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"CATALOG_SOURCE": "postgres",
		"DATABASE_URL":   "postgres://localhost:5432/checkout",
		"PORT":           "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 40, cfg.ReceiptColumns)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
}

func TestLoadPostgresRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"CATALOG_SOURCE": "postgres",
		"DATABASE_URL":   "",
	})
	require.Error(t, err)
}

func TestLoadCSVRequiresPath(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"CATALOG_SOURCE":   "csv",
		"CATALOG_CSV_PATH": "",
	})
	require.Error(t, err)

	cfg, err := LoadForTests(map[string]string{
		"CATALOG_SOURCE":   "csv",
		"CATALOG_CSV_PATH": "fixtures/products.csv",
		"DATABASE_URL":     "",
	})
	require.NoError(t, err)
	require.Equal(t, CatalogSourceCSV, cfg.CatalogSource)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"CATALOG_SOURCE": "ledger",
	})
	require.Error(t, err)
}

func TestLoadParsesRateLimitSettings(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"CATALOG_SOURCE":       "csv",
		"CATALOG_CSV_PATH":     "fixtures/products.csv",
		"CHECKOUT_RATE_MAX":    "25",
		"CHECKOUT_RATE_WINDOW": "30s",
		"RECEIPT_COLUMNS":      "32",
	})
	require.NoError(t, err)
	require.Equal(t, 25, cfg.CheckoutRateMax)
	require.Equal(t, 30*time.Second, cfg.CheckoutRateWindow)
	require.Equal(t, 32, cfg.ReceiptColumns)
}
