package offer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pasarmart/checkout-api/internal/catalog"
)

// ErrInvalidOfferSpec is returned when an offer registration is missing its
// product or argument.
var ErrInvalidOfferSpec = errors.New("invalid offer spec")

// Kind enumerates the supported promotional offer types.
type Kind string

const (
	// ThreeForTwo prices every third unit for free. The argument is ignored.
	ThreeForTwo Kind = "THREE_FOR_TWO"
	// TwoForAmount prices pairs of units at a fixed amount.
	TwoForAmount Kind = "TWO_FOR_AMOUNT"
	// FiveForAmount prices groups of five units at a fixed amount.
	FiveForAmount Kind = "FIVE_FOR_AMOUNT"
	// PercentDiscount takes a percentage off the whole line. The argument is
	// the percentage, not hardcoded to ten.
	PercentDiscount Kind = "PERCENT_DISCOUNT"
)

// ParseKind normalises a textual offer kind. "TEN_PERCENT_DISCOUNT" is
// accepted as a legacy alias used by older offer exports.
func ParseKind(value string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "THREE_FOR_TWO":
		return ThreeForTwo, nil
	case "TWO_FOR_AMOUNT":
		return TwoForAmount, nil
	case "FIVE_FOR_AMOUNT":
		return FiveForAmount, nil
	case "PERCENT_DISCOUNT", "TEN_PERCENT_DISCOUNT":
		return PercentDiscount, nil
	default:
		return "", fmt.Errorf("unknown offer kind %q", value)
	}
}

// Offer is a promotional rule keyed to one product. Argument is optional:
// offers arriving from loosely validated sources may omit it, in which case
// amount-based kinds simply never apply.
type Offer struct {
	Kind     Kind
	Product  catalog.Product
	Argument *float64
}

// Registry holds at most one active offer per product. It is a plain value
// owned by the checkout orchestrator; it does no locking of its own.
type Registry struct {
	offers map[catalog.Product]Offer
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{offers: make(map[catalog.Product]Offer)}
}

// Set registers an offer for a product, silently replacing any prior offer
// for the same product. The product and argument are required here even for
// kinds that ignore the argument. The stored kind is always the normalised
// one, so legacy aliases price the same as their canonical form.
func (r *Registry) Set(kind Kind, p catalog.Product, argument *float64) error {
	if p.IsZero() {
		return fmt.Errorf("product required: %w", ErrInvalidOfferSpec)
	}
	if argument == nil {
		return fmt.Errorf("argument required: %w", ErrInvalidOfferSpec)
	}
	parsed, err := ParseKind(string(kind))
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidOfferSpec)
	}
	r.offers[p] = Offer{Kind: parsed, Product: p, Argument: argument}
	return nil
}

// Put stores an offer as-is, without the Set validations. This is the path
// for ingested offers, which may legitimately carry no argument.
func (r *Registry) Put(o Offer) {
	if o.Product.IsZero() {
		return
	}
	r.offers[o.Product] = o
}

// Lookup returns the active offer for a product, if any.
func (r *Registry) Lookup(p catalog.Product) (Offer, bool) {
	if r == nil {
		return Offer{}, false
	}
	o, ok := r.offers[p]
	return o, ok
}

// Len reports the number of registered offers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.offers)
}
