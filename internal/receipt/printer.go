package receipt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pasarmart/checkout-api/internal/catalog"
)

// Printer renders a receipt as fixed-width till text. Prices print with two
// decimals; quantities print as integers for EACH products and with three
// decimals for WEIGHT products.
type Printer struct {
	Columns int
}

// NewPrinter constructs a printer with the given line width, defaulting to
// the classic 40-column till roll.
func NewPrinter(columns int) Printer {
	if columns <= 0 {
		columns = 40
	}
	return Printer{Columns: columns}
}

// Print renders the full receipt.
func (p Printer) Print(r *Receipt) string {
	var b strings.Builder
	for _, item := range r.Items() {
		b.WriteString(p.printLineItem(item))
	}
	for _, d := range r.Discounts() {
		b.WriteString(p.line(d.Description+" ("+d.Product.Name+")", formatPrice(d.Amount)))
	}
	b.WriteString("\n")
	b.WriteString(p.line("Total: ", formatPrice(r.TotalPrice())))
	return b.String()
}

func (p Printer) printLineItem(item LineItem) string {
	out := p.line(item.Product.Name, formatPrice(item.TotalPrice))
	if item.Quantity != 1 {
		out += fmt.Sprintf("  %s * %s\n", formatPrice(item.Price), formatQuantity(item))
	}
	return out
}

// line pads name and value to the configured width with at least one space
// between them.
func (p Printer) line(name, value string) string {
	width := p.Columns
	if width <= 0 {
		width = 40
	}
	gap := width - len(name) - len(value)
	if gap < 1 {
		gap = 1
	}
	return name + strings.Repeat(" ", gap) + value + "\n"
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

func formatQuantity(item LineItem) string {
	if item.Product.Unit == catalog.UnitEach {
		return strconv.Itoa(int(item.Quantity))
	}
	return fmt.Sprintf("%.3f", item.Quantity)
}
