package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pasarmart/checkout-api/internal/catalog"
	"github.com/pasarmart/checkout-api/internal/offer"
)

// ProductRow is one parsed line of a product CSV (name,unit,price).
type ProductRow struct {
	Name  string  `validate:"required"`
	Unit  string  `validate:"required"`
	Price float64 `validate:"gt=0"`
}

// OfferRow is one parsed line of an offer CSV (kind,product,argument).
// Argument is nil when the column is empty or absent.
type OfferRow struct {
	Kind     string `validate:"required"`
	Product  string `validate:"required"`
	Argument *float64
}

// CartRow is one parsed line of a cart CSV (name,quantity).
type CartRow struct {
	Name     string  `validate:"required"`
	Quantity float64 `validate:"gt=0"`
}

// Reader parses fixture CSVs. Malformed rows are skipped with a warning
// rather than failing the whole file.
type Reader struct {
	Validate *validator.Validate
	Log      zerolog.Logger
}

func NewReader(log zerolog.Logger) Reader {
	return Reader{Validate: validator.New(), Log: log}
}

// Products reads product rows. The second return value is the number of
// rows skipped.
func (rd Reader) Products(r io.Reader) ([]ProductRow, int, error) {
	var rows []ProductRow
	skipped := 0
	err := rd.eachRecord(r, "products", 3, func(line int, record []string) {
		price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			rd.skip("products", line, "price is not a number")
			skipped++
			return
		}
		if _, err := catalog.ParseUnit(record[1]); err != nil {
			rd.skip("products", line, "unknown unit")
			skipped++
			return
		}
		row := ProductRow{
			Name:  strings.TrimSpace(record[0]),
			Unit:  strings.TrimSpace(record[1]),
			Price: price,
		}
		if err := rd.validate(row); err != nil {
			rd.skip("products", line, err.Error())
			skipped++
			return
		}
		rows = append(rows, row)
	}, &skipped)
	return rows, skipped, err
}

// Offers reads offer rows. The argument column may be omitted entirely.
func (rd Reader) Offers(r io.Reader) ([]OfferRow, int, error) {
	var rows []OfferRow
	skipped := 0
	err := rd.eachRecord(r, "offers", 2, func(line int, record []string) {
		row := OfferRow{
			Kind:    strings.TrimSpace(record[0]),
			Product: strings.TrimSpace(record[1]),
		}
		if len(record) > 2 {
			raw := strings.TrimSpace(record[2])
			if raw != "" {
				arg, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					rd.skip("offers", line, "argument is not a number")
					skipped++
					return
				}
				row.Argument = &arg
			}
		}
		if _, err := offer.ParseKind(row.Kind); err != nil {
			rd.skip("offers", line, "unknown offer kind")
			skipped++
			return
		}
		if err := rd.validate(row); err != nil {
			rd.skip("offers", line, err.Error())
			skipped++
			return
		}
		rows = append(rows, row)
	}, &skipped)
	return rows, skipped, err
}

// CartLines reads cart rows for replaying a fixture checkout.
func (rd Reader) CartLines(r io.Reader) ([]CartRow, int, error) {
	var rows []CartRow
	skipped := 0
	err := rd.eachRecord(r, "cart", 2, func(line int, record []string) {
		qty, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			rd.skip("cart", line, "quantity is not a number")
			skipped++
			return
		}
		row := CartRow{Name: strings.TrimSpace(record[0]), Quantity: qty}
		if err := rd.validate(row); err != nil {
			rd.skip("cart", line, err.Error())
			skipped++
			return
		}
		rows = append(rows, row)
	}, &skipped)
	return rows, skipped, err
}

func (rd Reader) eachRecord(r io.Reader, file string, minFields int, fn func(int, []string), skipped *int) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			rd.skip(file, line, "malformed csv row")
			*skipped++
			continue
		}
		if len(record) < minFields {
			rd.skip(file, line, "too few columns")
			*skipped++
			continue
		}
		fn(line, record)
	}
}

func (rd Reader) validate(row any) error {
	if rd.Validate == nil {
		return nil
	}
	return rd.Validate.Struct(row)
}

func (rd Reader) skip(file string, line int, reason string) {
	rd.Log.Warn().Str("file", file).Int("line", line).Str("reason", reason).Msg("skipping row")
}

// BuildCatalog loads product rows into an in-memory catalog.
func BuildCatalog(rows []ProductRow) (*catalog.Memory, error) {
	mem := catalog.NewMemory()
	for _, row := range rows {
		unit, err := catalog.ParseUnit(row.Unit)
		if err != nil {
			return nil, fmt.Errorf("build catalog: %w", err)
		}
		if err := mem.Add(catalog.Product{Name: row.Name, Unit: unit}, row.Price); err != nil {
			return nil, fmt.Errorf("build catalog: %w", err)
		}
	}
	return mem, nil
}

// ResolveOffers turns offer rows into offers bound to catalog products.
// Rows naming unknown products are skipped with a warning.
func (rd Reader) ResolveOffers(ctx context.Context, rows []OfferRow, cat catalog.Catalog) []offer.Offer {
	offers := make([]offer.Offer, 0, len(rows))
	for i, row := range rows {
		kind, err := offer.ParseKind(row.Kind)
		if err != nil {
			rd.skip("offers", i+1, "unknown offer kind")
			continue
		}
		product, err := cat.ProductWithName(ctx, row.Product)
		if err != nil {
			rd.skip("offers", i+1, "unknown product")
			continue
		}
		offers = append(offers, offer.Offer{Kind: kind, Product: product, Argument: row.Argument})
	}
	return offers
}

// ProductsFile reads a product CSV from disk.
func (rd Reader) ProductsFile(path string) ([]ProductRow, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open products csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	return rd.Products(f)
}

// OffersFile reads an offer CSV from disk.
func (rd Reader) OffersFile(path string) ([]OfferRow, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open offers csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	return rd.Offers(f)
}
