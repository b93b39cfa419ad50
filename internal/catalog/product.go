package catalog

import (
	"fmt"
	"strings"
)

// Unit describes how a product quantity is measured at the till.
type Unit string

const (
	// UnitEach is for discrete articles counted in whole units.
	UnitEach Unit = "EACH"
	// UnitWeight is for articles sold by weight, with fractional quantities.
	UnitWeight Unit = "WEIGHT"
)

// ParseUnit normalises a textual unit kind. "KILO" is accepted as a legacy
// alias for UnitWeight, which is what older catalog exports use.
func ParseUnit(value string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "EACH":
		return UnitEach, nil
	case "WEIGHT", "KILO":
		return UnitWeight, nil
	default:
		return "", fmt.Errorf("unknown product unit %q", value)
	}
}

// Product identifies a sellable article. It is a value type: two products
// with the same name and unit are the same product, so Product can be used
// directly as a map key.
type Product struct {
	Name string `json:"name"`
	Unit Unit   `json:"unit"`
}

// IsZero reports whether the product carries no identity.
func (p Product) IsZero() bool {
	return p.Name == "" && p.Unit == ""
}
