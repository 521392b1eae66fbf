package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// MaxItemsLength bounds the raw prods parameter.
const MaxItemsLength = 16 * 1024

// ValidatePostalCode validates a destination or origin CEP.
func ValidatePostalCode(cep string) error {
	if strings.TrimSpace(cep) == "" {
		return errors.New("postal code cannot be empty")
	}
	if _, ok := NormalizePostalCode(cep); !ok {
		return errors.New("postal code must have 8 digits")
	}
	return nil
}

// ValidateItemsParam validates the raw line-item string before parsing.
func ValidateItemsParam(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("items cannot be empty")
	}
	if len(raw) > MaxItemsLength {
		return errors.New("items too long")
	}
	return nil
}

// ValidateOverride validates optional numeric overrides such as km or price per km.
func ValidateOverride(value float64, min, max float64) error {
	if value < min || value > max {
		return errors.New("value out of range")
	}
	return nil
}

// SanitizeProductCode removes HTML tags and control characters. Punctuation
// stays: catalog names like "CAIXA D'ÁGUA" or "FOSSA (1500L)" must still
// match after sanitizing.
func SanitizeProductCode(code string) string {
	sanitized := htmlTagPattern.ReplaceAllString(code, "")
	sanitized = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case !unicode.IsPrint(r):
			return -1
		}
		return r
	}, sanitized)
	return strings.TrimSpace(sanitized)
}
