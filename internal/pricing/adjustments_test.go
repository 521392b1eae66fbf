package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustmentsApplyOrder(t *testing.T) {
	tests := []struct {
		name   string
		adjust Adjustments
		price  float64
		want   float64
	}{
		{"identity", Adjustments{}, 247.06, 247.06},
		{"round trip", Adjustments{TripMultiplier: 2}, 247.06, 494.12},
		{"percent", Adjustments{SurchargePercent: 10}, 100, 110},
		{"flat", Adjustments{SurchargeFlat: 25.5}, 100, 125.5},
		{"floor wins", Adjustments{MinimumPrice: 150}, 100, 150},
		{"floor loses", Adjustments{MinimumPrice: 50}, 100, 100},
		// (100 * 2) * 1.1 + 5 = 225, floor 200 does not apply
		{"full chain", Adjustments{TripMultiplier: 2, SurchargePercent: 10, SurchargeFlat: 5, MinimumPrice: 200}, 100, 225},
		// floor is applied last, after the flat addend
		{"floor after flat", Adjustments{SurchargeFlat: 5, MinimumPrice: 200}, 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.adjust.Apply(tt.price), 1e-9)
		})
	}
}

func TestAdjustmentsIsZero(t *testing.T) {
	assert.True(t, Adjustments{}.IsZero())
	assert.False(t, Adjustments{SurchargeFlat: 1}.IsZero())
}

func TestAdjustmentsOr(t *testing.T) {
	item := Adjustments{MinimumPrice: 300}
	fallback := Adjustments{TripMultiplier: 2, MinimumPrice: 100}

	merged := item.Or(fallback)

	assert.Equal(t, Adjustments{TripMultiplier: 2, MinimumPrice: 300}, merged)
}
