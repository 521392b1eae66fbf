package utils

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned by ParseLocaleFloat for values that are neither a
// number nor one of the recognized empty markers.
var ErrNotNumeric = errors.New("value is not numeric")

// ParseLocaleFloat parses numbers written either as "1.5" or "1,5".
// Empty strings and the markers null, none and nan parse as zero.
// When both separators are present the last one is the decimal separator,
// so "1.234,5" and "1,234.5" both yield 1234.5.
func ParseLocaleFloat(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "null", "none", "nan":
		return 0, nil
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrNotNumeric
	}
	// ParseFloat accepts "NaN" and "Inf" spellings we already handled or reject.
	if f != f || f > 1e15 || f < -1e15 {
		return 0, ErrNotNumeric
	}
	return f, nil
}
