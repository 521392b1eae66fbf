// Package pricing turns a control size and a distance into a freight price.
package pricing

import (
	"github.com/shopspring/decimal"
)

// MinOccupancy floors the truck occupancy so that tiny or dimensionless
// products still produce a non-zero quote.
const MinOccupancy = 0.01

// Params holds the values shared by every item of a quote.
type Params struct {
	PricePerKm  float64
	TruckLength float64
	Km          float64
	Global      Adjustments
}

// Item is one line of the quote, already reduced to its control size.
type Item struct {
	ControlSize float64
	Quantity    int
	Adjust      Adjustments
}

// ItemPrice is the priced line. UnitPrice is rounded before being multiplied
// by the quantity so totals match previously issued quotes.
type ItemPrice struct {
	Occupancy float64
	UnitPrice float64
	Total     float64
}

// Result groups the per-item prices and the totals.
type Result struct {
	Items    []ItemPrice
	Subtotal float64
	Total    float64
}

// Occupancy returns controlSize/truckLength floored at MinOccupancy.
// A non-positive truck length counts as a full truck.
func Occupancy(controlSize, truckLength float64) float64 {
	if truckLength <= 0 {
		return 1
	}
	occ := controlSize / truckLength
	if occ < MinOccupancy || occ != occ {
		return MinOccupancy
	}
	return occ
}

// PriceItem computes round(pricePerKm * km * occupancy, 2).
func PriceItem(controlSize, km, pricePerKm, truckLength float64) float64 {
	return priceItem(controlSize, km, pricePerKm, truckLength).InexactFloat64()
}

func priceItem(controlSize, km, pricePerKm, truckLength float64) decimal.Decimal {
	occ := Occupancy(controlSize, truckLength)
	base := decimal.NewFromFloat(pricePerKm).
		Mul(decimal.NewFromFloat(km)).
		Mul(decimal.NewFromFloat(occ))
	return base.Round(2)
}

// Calculate prices every item, sums them and applies the global adjustments.
func Calculate(items []Item, params Params) Result {
	result := Result{Items: make([]ItemPrice, 0, len(items))}

	subtotal := decimal.Zero
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		unit := item.Adjust.apply(priceItem(item.ControlSize, params.Km, params.PricePerKm, params.TruckLength))
		total := unit.Mul(decimal.NewFromInt(int64(qty)))
		subtotal = subtotal.Add(total)

		result.Items = append(result.Items, ItemPrice{
			Occupancy: Occupancy(item.ControlSize, params.TruckLength),
			UnitPrice: unit.InexactFloat64(),
			Total:     total.InexactFloat64(),
		})
	}

	result.Subtotal = subtotal.InexactFloat64()
	result.Total = params.Global.apply(subtotal).InexactFloat64()
	return result
}

// ApplyMultiplier scales a total by a service-level multiplier and rounds it.
// A zero multiplier leaves the total unchanged.
func ApplyMultiplier(total, multiplier float64) float64 {
	if multiplier == 0 {
		multiplier = 1
	}
	return decimal.NewFromFloat(total).Mul(decimal.NewFromFloat(multiplier)).Round(2).InexactFloat64()
}
