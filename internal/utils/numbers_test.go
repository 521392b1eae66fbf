package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1.5", 1.5},
		{"1,5", 1.5},
		{" 250 ", 250},
		{"1.234,5", 1234.5},
		{"1,234.5", 1234.5},
		{"", 0},
		{"null", 0},
		{"None", 0},
		{"NaN", 0},
		{"-2", -2},
	}

	for _, tt := range tests {
		got, err := ParseLocaleFloat(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.input)
	}
}

func TestParseLocaleFloatRejectsGarbage(t *testing.T) {
	for _, input := range []string{"abc", "1.2.3", "12a", "Inf", "1e300"} {
		_, err := ParseLocaleFloat(input)
		assert.ErrorIs(t, err, ErrNotNumeric, "input %q", input)
	}
}
