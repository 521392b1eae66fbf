package reference

import (
	"log/slog"
	"time"

	"frete.bakoflog.com.br/internal/distance"
)

// Snapshot is one consistent, immutable view of the reference data. Handlers
// take a snapshot at the start of a request and use it throughout.
type Snapshot struct {
	Constants Constants
	Catalog   *Catalog
	Ranges    []distance.Range
	Rules     Rules
	Resolver  *distance.Resolver

	Source   string
	LoadedAt time.Time
	Warnings []string

	catalogDropped int
	rangesSkipped  int
}

// Stats summarizes a snapshot for health checks and logs.
type Stats struct {
	Products       int       `json:"products"`
	ProductsSkip   int       `json:"productsSkipped"`
	Ranges         int       `json:"ranges"`
	RangesSkip     int       `json:"rangesSkipped"`
	Destinations   int       `json:"destinations"`
	ProductRules   int       `json:"productRules"`
	Services       int       `json:"services"`
	Warnings       int       `json:"warnings"`
	PricePerKm     float64   `json:"pricePerKm"`
	TruckLength    float64   `json:"truckLength"`
	DefaultKm      float64   `json:"defaultKm"`
	LoadedAt       time.Time `json:"loadedAt"`
	WorkbookSource string    `json:"source,omitempty"`
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		Products:       s.Catalog.Len(),
		ProductsSkip:   s.catalogDropped,
		Ranges:         s.Resolver.RangeCount(),
		RangesSkip:     s.rangesSkipped,
		Destinations:   len(s.Rules.Destinations),
		ProductRules:   len(s.Rules.Products),
		Services:       len(s.Rules.ServiceLevels()),
		Warnings:       len(s.Warnings),
		PricePerKm:     s.Constants.PricePerKm,
		TruckLength:    s.Constants.TruckLength,
		DefaultKm:      s.Resolver.DefaultKm(),
		LoadedAt:       s.LoadedAt,
		WorkbookSource: s.Source,
	}
}

func (s *Snapshot) logAttrs() []slog.Attr {
	st := s.Stats()
	return []slog.Attr{
		slog.String("component", "reference_data"),
		slog.String("source", st.WorkbookSource),
		slog.Float64("price_per_km", st.PricePerKm),
		slog.Float64("truck_length", st.TruckLength),
		slog.Float64("default_km", st.DefaultKm),
		slog.Int("products", st.Products),
		slog.Int("products_skipped", st.ProductsSkip),
		slog.Int("ranges", st.Ranges),
		slog.Int("ranges_skipped", st.RangesSkip),
		slog.Int("destination_rules", st.Destinations),
		slog.Int("warnings", st.Warnings),
	}
}
