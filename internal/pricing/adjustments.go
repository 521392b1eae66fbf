package pricing

import "github.com/shopspring/decimal"

// Adjustments are applied in field order: trip multiplier, percentage
// surcharge, flat surcharge, then the minimum price floor. Zero values leave
// the price unchanged. Every stage is rounded to cents.
type Adjustments struct {
	TripMultiplier   float64 `yaml:"trip_multiplier"`
	SurchargePercent float64 `yaml:"surcharge_percent"`
	SurchargeFlat    float64 `yaml:"surcharge_flat"`
	MinimumPrice     float64 `yaml:"minimum_price"`
}

// IsZero reports whether the adjustments are the identity.
func (a Adjustments) IsZero() bool {
	return a == Adjustments{}
}

// Apply runs the adjustment chain on a price.
func (a Adjustments) Apply(price float64) float64 {
	return a.apply(decimal.NewFromFloat(price)).InexactFloat64()
}

// Or returns a with every zero field taken from fallback.
func (a Adjustments) Or(fallback Adjustments) Adjustments {
	if a.TripMultiplier == 0 {
		a.TripMultiplier = fallback.TripMultiplier
	}
	if a.SurchargePercent == 0 {
		a.SurchargePercent = fallback.SurchargePercent
	}
	if a.SurchargeFlat == 0 {
		a.SurchargeFlat = fallback.SurchargeFlat
	}
	if a.MinimumPrice == 0 {
		a.MinimumPrice = fallback.MinimumPrice
	}
	return a
}

func (a Adjustments) apply(v decimal.Decimal) decimal.Decimal {
	if a.TripMultiplier > 0 {
		v = v.Mul(decimal.NewFromFloat(a.TripMultiplier)).Round(2)
	}
	if a.SurchargePercent != 0 {
		factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(a.SurchargePercent).Div(decimal.NewFromInt(100)))
		v = v.Mul(factor).Round(2)
	}
	if a.SurchargeFlat != 0 {
		v = v.Add(decimal.NewFromFloat(a.SurchargeFlat)).Round(2)
	}
	if a.MinimumPrice > 0 {
		v = decimal.Max(v, decimal.NewFromFloat(a.MinimumPrice).Round(2))
	}
	return v
}
