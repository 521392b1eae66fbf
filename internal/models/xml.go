package models

import (
	"strconv"
	"strings"
)

// Fixed-point renderings used by the XML documents. Values are rounded
// when marshalled, so a value that was already rounded serializes unchanged.

// Money renders with two decimals.
type Money float64

// Meters renders with three decimals.
type Meters float64

// Kilometers renders with one decimal.
type Kilometers float64

func (m Money) MarshalText() ([]byte, error) { return formatFixed(float64(m), 2), nil }

func (m *Money) UnmarshalText(b []byte) error { return parseFixed(b, (*float64)(m)) }

func (m Meters) MarshalText() ([]byte, error) { return formatFixed(float64(m), 3), nil }

func (m *Meters) UnmarshalText(b []byte) error { return parseFixed(b, (*float64)(m)) }

func (k Kilometers) MarshalText() ([]byte, error) { return formatFixed(float64(k), 1), nil }

func (k *Kilometers) UnmarshalText(b []byte) error { return parseFixed(b, (*float64)(k)) }

func formatFixed(v float64, decimals int) []byte {
	return strconv.AppendFloat(nil, v, 'f', decimals, 64)
}

func parseFixed(b []byte, out *float64) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*out = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*out = v
	return nil
}
