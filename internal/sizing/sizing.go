// Package sizing picks the linear dimension of a product that governs how
// much of the truck bed it takes.
package sizing

import (
	"math"
	"strings"
)

// Category is the closed set of product families recognized by name.
type Category int

const (
	Auto Category = iota
	Fossa
	Vertical
	Horizontal
	TcUpTo10k
)

func (c Category) String() string {
	switch c {
	case Fossa:
		return "fossa"
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case TcUpTo10k:
		return "tc_ate_10k"
	default:
		return "auto"
	}
}

// Classify maps a product name or code to its category. Matching is done on
// the lower-cased name and the first matching keyword wins.
func Classify(name string) Category {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "fossa"):
		return Fossa
	case strings.Contains(n, "vertical"):
		return Vertical
	case strings.Contains(n, "horizontal"):
		return Horizontal
	case strings.Contains(n, "tc") && (strings.Contains(n, "10000") || strings.Contains(n, "10.000")):
		return TcUpTo10k
	default:
		return Auto
	}
}

// Dimension reports which of the two dimensions the category uses: 1, 2, or 0
// for the larger of both.
func (c Category) Dimension() int {
	switch c {
	case Fossa, Vertical:
		return 1
	case Horizontal, TcUpTo10k:
		return 2
	default:
		return 0
	}
}

// ControlSize returns the control size in meters. dim1 is the height of the
// piece and dim2 its width or diameter. Missing dimensions are passed as zero.
func ControlSize(name string, dim1, dim2 float64) float64 {
	return ForCategory(Classify(name), dim1, dim2)
}

// ForCategory is ControlSize for an already classified product.
func ForCategory(c Category, dim1, dim2 float64) float64 {
	switch c.Dimension() {
	case 1:
		return dim1
	case 2:
		return dim2
	default:
		return math.Max(dim1, dim2)
	}
}
