package quote

import (
	"fmt"
	"math"
	"strings"

	"frete.bakoflog.com.br/internal/utils"
)

// CentimeterThreshold separates meters from centimeters: no product is more
// than 20 m long, and no real piece is under 20 cm, so a linear dimension
// above it is read as centimeters. Values close to the threshold are
// ambiguous and this is a known approximation.
const CentimeterThreshold = 20.0

const fieldsPerItem = 8

// LineItem is one product line of the request. Linear dimensions are in
// meters.
type LineItem struct {
	Length        float64
	Width         float64
	Height        float64
	Volume        float64
	Quantity      int
	Weight        float64
	ProductCode   string
	DeclaredValue float64
}

// SkipReason explains why an item of the raw string was ignored.
type SkipReason struct {
	Index  int    `json:"index"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func (s SkipReason) String() string {
	return fmt.Sprintf("item %d: %s", s.Index, s.Reason)
}

// ParseItems splits the platform's prods parameter. Items are separated by
// "/" or "|" and fields by ";" in the order
// length;width;height;volume;quantity;weight;code;declared_value.
// Malformed items are returned as skip reasons instead of failing the whole
// request.
func ParseItems(raw string) ([]LineItem, []SkipReason) {
	chunks := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '|' })

	var items []LineItem
	var skipped []SkipReason
	index := 0
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		item, err := parseItem(chunk)
		if err != nil {
			skipped = append(skipped, SkipReason{Index: index, Raw: chunk, Reason: err.Error()})
		} else {
			items = append(items, item)
		}
		index++
	}
	return items, skipped
}

func parseItem(chunk string) (LineItem, error) {
	fields := strings.Split(chunk, ";")
	if len(fields) != fieldsPerItem {
		return LineItem{}, fmt.Errorf("expected %d fields, got %d", fieldsPerItem, len(fields))
	}

	var nums [fieldsPerItem]float64
	for i, f := range fields {
		if i == 6 {
			continue
		}
		v, err := utils.ParseLocaleFloat(f)
		if err != nil {
			return LineItem{}, fmt.Errorf("field %d: %q is not a number", i+1, strings.TrimSpace(f))
		}
		if v < 0 {
			return LineItem{}, fmt.Errorf("field %d: negative value", i+1)
		}
		nums[i] = v
	}

	qty := int(math.Trunc(nums[4]))
	if qty < 1 {
		qty = 1
	}

	return LineItem{
		Length:        toMeters(nums[0]),
		Width:         toMeters(nums[1]),
		Height:        toMeters(nums[2]),
		Volume:        nums[3],
		Quantity:      qty,
		Weight:        nums[5],
		ProductCode:   utils.SanitizeProductCode(fields[6]),
		DeclaredValue: nums[7],
	}, nil
}

func toMeters(v float64) float64 {
	if v > CentimeterThreshold {
		return v / 100
	}
	return v
}
