package utils

import (
	"strconv"
	"strings"
)

// PostalCodeLength is the number of digits of a Brazilian CEP.
const PostalCodeLength = 8

// DigitsOnly drops every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePostalCode strips punctuation from a CEP typed by a customer.
// Anything that is not exactly eight digits afterwards is rejected.
func NormalizePostalCode(raw string) (string, bool) {
	d := DigitsOnly(raw)
	if len(d) != PostalCodeLength {
		return "", false
	}
	return d, true
}

// PadPostalCode is the lenient variant used for spreadsheet cells, where a
// CEP stored as a number loses its leading zeros (01310100 becomes 1310100).
// Five to eight digits are accepted and left-padded.
func PadPostalCode(raw string) (string, bool) {
	d := DigitsOnly(strings.TrimSuffix(strings.TrimSpace(raw), ".0"))
	if len(d) < 5 || len(d) > PostalCodeLength {
		return "", false
	}
	return strings.Repeat("0", PostalCodeLength-len(d)) + d, true
}

// PostalCodeNumber returns the numeric value of an 8-digit CEP string.
func PostalCodeNumber(cep string) (uint32, bool) {
	if len(cep) != PostalCodeLength {
		return 0, false
	}
	n, err := strconv.ParseUint(cep, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// FormatPostalCode renders a numeric CEP as its 8-digit string.
func FormatPostalCode(n uint32) string {
	s := strconv.FormatUint(uint64(n), 10)
	if len(s) < PostalCodeLength {
		s = strings.Repeat("0", PostalCodeLength-len(s)) + s
	}
	return s
}
