package reference

import (
	"strings"

	"frete.bakoflog.com.br/internal/utils"
)

const (
	DefaultPricePerKm  = 7.0
	DefaultTruckLength = 8.5
)

// Constants are the two scalars every quote is priced with.
type Constants struct {
	PricePerKm  float64 `json:"pricePerKm"`
	TruckLength float64 `json:"truckLength"`
}

// DefaultConstants returns the values used when the workbook has none.
func DefaultConstants() Constants {
	return Constants{PricePerKm: DefaultPricePerKm, TruckLength: DefaultTruckLength}
}

// constantSpec describes how to recognize one constant in the sheet.
type constantSpec struct {
	name     string
	labels   []string
	min, max float64
}

var (
	pricePerKmSpec = constantSpec{
		name:   "price per km",
		labels: []string{"VALOR KM", "VALOR POR KM", "VALOR DO KM", "PRECO KM", "PRECO POR KM"},
		min:    3,
		max:    50,
	}
	truckLengthSpec = constantSpec{
		name:   "truck length",
		labels: []string{"TAMANHO CAMINHAO", "TAMANHO DO CAMINHAO", "COMPRIMENTO CAMINHAO", "COMPRIMENTO DO CAMINHAO"},
		min:    3,
		max:    20,
	}
)

func (s constantSpec) plausible(v float64) bool {
	return v >= s.min && v <= s.max
}

func (s constantSpec) matches(cell string) bool {
	return utils.ContainsAny(cell, s.labels...)
}

// extractConstant scans rows for a cell carrying one of the labels and
// returns the first numeric cell on that row inside the plausible range.
// Labelled rows with only implausible numbers are skipped, so a header line
// such as "VALOR KM (R$) 2024" does not shadow the real value below it.
func extractConstant(rows [][]string, spec constantSpec) (float64, bool) {
	for _, row := range rows {
		labelled := false
		for _, cell := range row {
			if _, numeric := cellNumber(cell); !numeric && spec.matches(cell) {
				labelled = true
				break
			}
		}
		if !labelled {
			continue
		}
		for _, cell := range row {
			if v, numeric := cellNumber(cell); numeric && spec.plausible(v) {
				return v, true
			}
		}
	}
	return 0, false
}

// cellNumber parses a non-empty cell as a number. Currency prefixes are
// tolerated since the sheet is edited by hand.
func cellNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return 0, false
	}
	switch strings.ToLower(s) {
	case "null", "none", "nan":
		return 0, false
	}
	v, err := utils.ParseLocaleFloat(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
