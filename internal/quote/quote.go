// Package quote turns a platform request into priced services.
package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"frete.bakoflog.com.br/internal/distance"
	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/pricing"
	"frete.bakoflog.com.br/internal/reference"
	"frete.bakoflog.com.br/internal/sizing"
)

// ErrNoValidItems is returned when every line item was malformed.
var ErrNoValidItems = errors.New("no valid line items")

// Where a control size came from.
const (
	SizeFromCatalog = "catalogo"
	SizeFromRule    = "regra"
	SizeFromName    = "nome"
)

// Request is one quote request. Zero overrides mean "use the reference data".
type Request struct {
	Destination string
	Origin      string
	Items       string

	Km          float64
	HasKm       bool
	PricePerKm  float64
	TruckLength float64
}

// ItemResult is the priced breakdown of one line item.
type ItemResult struct {
	ProductCode string  `json:"productCode"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	ControlSize float64 `json:"controlSize"`
	SizeSource  string  `json:"sizeSource"`
	Km          float64 `json:"km"`
	Occupancy   float64 `json:"occupancy"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// ServiceQuote is the price of one delivery level.
type ServiceQuote struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	LeadTimeMin int     `json:"leadTimeMin"`
	LeadTimeMax int     `json:"leadTimeMax"`
}

// Result is a complete quote.
type Result struct {
	Distance  distance.Resolution `json:"distance"`
	Constants reference.Constants `json:"constants"`
	Items     []ItemResult        `json:"items"`
	Skipped   []SkipReason        `json:"skipped,omitempty"`
	Subtotal  float64             `json:"subtotal"`
	Total     float64             `json:"total"`
	Services  []ServiceQuote      `json:"services"`
}

// SnapshotSource provides the reference data for a quote.
type SnapshotSource interface {
	Snapshot() *reference.Snapshot
}

// Engine prices requests against the current reference data.
type Engine struct {
	source SnapshotSource
	logger *slog.Logger
}

func NewEngine(source SnapshotSource, logger *slog.Logger) *Engine {
	return &Engine{source: source, logger: logging.Component(logger, "quote_engine")}
}

// Quote parses the items, resolves the distance and prices every service
// level. The reference snapshot is read once, so a concurrent reload never
// mixes two versions of the data in one quote.
func (e *Engine) Quote(ctx context.Context, req Request) (Result, error) {
	items, skipped := ParseItems(req.Items)
	for _, s := range skipped {
		e.logger.Warn("line item skipped",
			slog.Int("index", s.Index),
			slog.String("raw", s.Raw),
			slog.String("reason", s.Reason))
	}
	if len(items) == 0 {
		return Result{Skipped: skipped}, fmt.Errorf("%w: %d skipped", ErrNoValidItems, len(skipped))
	}

	snap := e.source.Snapshot()

	constants := snap.Constants
	if req.PricePerKm > 0 {
		constants.PricePerKm = req.PricePerKm
	}
	if req.TruckLength > 0 {
		constants.TruckLength = req.TruckLength
	}

	dist := snap.Resolver.Resolve(ctx, distance.Query{
		Destination: req.Destination,
		Origin:      req.Origin,
		Override:    req.Km,
		HasOverride: req.HasKm,
	})
	// A canceled request may have cut the geocoder short; the fallback
	// distance would be priced for nobody.
	if err := ctx.Err(); err != nil {
		return Result{Skipped: skipped}, fmt.Errorf("resolve distance: %w", err)
	}

	priced := make([]pricing.Item, 0, len(items))
	results := make([]ItemResult, 0, len(items))
	for _, item := range items {
		size := ResolveSize(snap, item)
		priced = append(priced, pricing.Item{
			ControlSize: size.ControlSize,
			Quantity:    item.Quantity,
			Adjust:      size.Adjust,
		})
		results = append(results, ItemResult{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			Category:    size.Category.String(),
			ControlSize: size.ControlSize,
			SizeSource:  size.Source,
			Km:          dist.Km,
		})
	}

	calc := pricing.Calculate(priced, pricing.Params{
		PricePerKm:  constants.PricePerKm,
		TruckLength: constants.TruckLength,
		Km:          dist.Km,
		Global:      snap.Rules.Pricing,
	})
	for i := range results {
		results[i].Occupancy = calc.Items[i].Occupancy
		results[i].UnitPrice = calc.Items[i].UnitPrice
		results[i].Total = calc.Items[i].Total
	}

	result := Result{
		Distance:  dist,
		Constants: constants,
		Items:     results,
		Skipped:   skipped,
		Subtotal:  calc.Subtotal,
		Total:     calc.Total,
	}
	for _, s := range snap.Rules.ServiceLevels() {
		result.Services = append(result.Services, ServiceQuote{
			Code:        s.Code,
			Name:        s.Name,
			Price:       pricing.ApplyMultiplier(calc.Total, s.Multiplier),
			LeadTimeMin: s.LeadTimeMin,
			LeadTimeMax: s.LeadTimeMax,
		})
	}

	e.logger.Debug("quote computed",
		slog.String("destination", dist.PostalCode),
		slog.Float64("km", dist.Km),
		slog.String("distance_source", string(dist.Source)),
		slog.Int("items", len(results)),
		slog.Int("skipped", len(skipped)),
		slog.Float64("total", calc.Total))

	return result, nil
}

// Size is the control size chosen for a line item.
type Size struct {
	ControlSize float64
	Category    sizing.Category
	Source      string
	Adjust      pricing.Adjustments
}

// ResolveSize picks the control size of an item. A catalog entry wins over
// the name-based rule applied to the request dimensions (height as dim1, the
// larger of length and width as dim2); a product rule with a control size
// overrides both and may carry its own price adjustments.
func ResolveSize(snap *reference.Snapshot, item LineItem) Size {
	var size Size
	if entry, ok := snap.Catalog.Lookup(item.ProductCode); ok {
		size = Size{ControlSize: entry.ControlSize, Category: entry.Category, Source: SizeFromCatalog}
	} else {
		category := sizing.Classify(item.ProductCode)
		dim2 := math.Max(item.Length, item.Width)
		size = Size{
			ControlSize: sizing.ForCategory(category, item.Height, dim2),
			Category:    category,
			Source:      SizeFromName,
		}
	}

	if rule, ok := snap.Rules.Product(item.ProductCode); ok {
		if rule.ControlSize > 0 {
			size.ControlSize = rule.ControlSize
			size.Source = SizeFromRule
		}
		size.Adjust = rule.Adjustments
	}
	return size
}
