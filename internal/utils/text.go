package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks, so "CAMINHÃO" becomes "CAMINHAO".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeText folds case and accents and collapses runs of whitespace,
// including non-breaking spaces pasted from spreadsheets. Product keys and
// spreadsheet labels are compared in this form.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(StripAccents(s))), " ")
}

// ContainsAny reports whether the normalized haystack contains any of the
// normalized needles.
func ContainsAny(haystack string, needles ...string) bool {
	h := NormalizeText(haystack)
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(h, NormalizeText(n)) {
			return true
		}
	}
	return false
}
