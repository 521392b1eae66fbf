// Package distance estimates the road distance from the factory to a
// destination CEP without calling a routing service.
package distance

import (
	"context"
	"log/slog"
	"math"
	"time"

	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/utils"
)

// Source tags where a distance came from. The values are echoed in the
// detailed quote document.
type Source string

const (
	SourceParam        Source = "param"
	SourceMunicipality Source = "municipio"
	SourceRange        Source = "faixa"
	SourceNearestRange Source = "aprox_faixa"
	SourceGeocoder     Source = "geo"
	SourceRegion       Source = "uf_fallback"
	SourceDefault      Source = "default"
)

// DestinationRule overrides the distance for a single CEP (Start == End) or
// a CEP interval. Name is informational, typically the municipality.
type DestinationRule struct {
	Name  string
	Start uint32
	End   uint32
	Km    float64
}

// Config holds the resolver settings.
type Config struct {
	// DefaultKm is used when nothing else matches.
	DefaultKm float64
	// BucketKm rounds the result up to a multiple of this width when positive.
	BucketKm float64
	// NearestMaxGap bounds the approximate range match, in CEP units. Zero disables it.
	NearestMaxGap uint32
	// Origin enables the geocoder step when set together with a Geocoder.
	Origin *Coordinates
	// RoadFactor converts straight-line distance to road distance.
	RoadFactor float64
	// GeocoderTimeout bounds one geocoder call including retries.
	GeocoderTimeout time.Duration
}

// Tables is the reference data the resolver reads.
type Tables struct {
	Rules   []DestinationRule
	Ranges  []Range
	Regions RegionTable
}

// Query is one distance question.
type Query struct {
	Destination string
	Origin      string
	Override    float64
	HasOverride bool
}

// Resolution is the answer. RawKm is the value before bucketing.
type Resolution struct {
	Km         float64 `json:"km"`
	RawKm      float64 `json:"rawKm"`
	Source     Source  `json:"source"`
	PostalCode string  `json:"postalCode,omitempty"`
	Region     string  `json:"region,omitempty"`
	Detail     string  `json:"detail,omitempty"`
}

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	config   Config
	exact    map[uint32]DestinationRule
	spans    []DestinationRule
	byOrigin map[string]*RangeTable
	regions  RegionTable
	geocoder Geocoder
	logger   *slog.Logger
}

// NewResolver builds a resolver over tables. geocoder may be nil.
func NewResolver(config Config, tables Tables, geocoder Geocoder, logger *slog.Logger) *Resolver {
	if config.RoadFactor <= 0 {
		config.RoadFactor = 1
	}
	if config.GeocoderTimeout <= 0 {
		config.GeocoderTimeout = 3 * time.Second
	}
	r := &Resolver{
		config:   config,
		exact:    make(map[uint32]DestinationRule),
		byOrigin: make(map[string]*RangeTable),
		regions:  tables.Regions,
		geocoder: geocoder,
		logger:   logging.Component(logger, "distance_resolver"),
	}
	if r.regions == nil {
		r.regions = DefaultRegionTable()
	}

	for _, rule := range tables.Rules {
		if rule.Km <= 0 || rule.Start > rule.End {
			continue
		}
		if rule.Start == rule.End {
			if _, dup := r.exact[rule.Start]; !dup {
				r.exact[rule.Start] = rule
			}
			continue
		}
		r.spans = append(r.spans, rule)
	}

	grouped := make(map[string][]Range)
	for _, rg := range tables.Ranges {
		grouped[rg.Origin] = append(grouped[rg.Origin], rg)
	}
	for origin, ranges := range grouped {
		table := NewRangeTable(ranges)
		if table.Overlaps() > 0 {
			r.logger.Warn("overlapping postal code ranges, first by start wins",
				slog.String("origin", origin),
				slog.Int("overlaps", table.Overlaps()))
		}
		r.byOrigin[origin] = table
	}

	return r
}

// RangeCount returns the number of ranges across all origins.
func (r *Resolver) RangeCount() int {
	n := 0
	for _, t := range r.byOrigin {
		n += t.Len()
	}
	return n
}

// DefaultKm returns the configured global default.
func (r *Resolver) DefaultKm() float64 {
	return r.config.DefaultKm
}

// Resolve walks the fallback chain: override, destination rules, range
// table, nearest range, geocoder, region table and finally the default.
func (r *Resolver) Resolve(ctx context.Context, q Query) Resolution {
	if q.HasOverride {
		return r.finish(Resolution{RawKm: math.Max(1, q.Override), Source: SourceParam})
	}

	cep, ok := utils.NormalizePostalCode(q.Destination)
	if !ok {
		return r.finish(Resolution{RawKm: r.config.DefaultKm, Source: SourceDefault, Detail: "invalid postal code"})
	}
	code, _ := utils.PostalCodeNumber(cep)
	res := Resolution{PostalCode: cep, Region: RegionForPostalCode(code)}

	if rule, ok := r.matchRule(code); ok {
		res.RawKm = rule.Km
		res.Detail = rule.Name
		if rule.Start == rule.End {
			res.Source = SourceMunicipality
		} else {
			res.Source = SourceRange
		}
		return r.finish(res)
	}

	tables := r.tablesFor(q.Origin)
	for _, t := range tables {
		if rg, ok := t.Lookup(code); ok {
			res.RawKm = rg.Km
			res.Source = SourceRange
			return r.finish(res)
		}
	}
	for _, t := range tables {
		if rg, gap, ok := t.Nearest(code, r.config.NearestMaxGap); ok {
			res.RawKm = rg.Km
			res.Source = SourceNearestRange
			res.Detail = utils.FormatPostalCode(rg.Start) + "-" + utils.FormatPostalCode(rg.End)
			r.logger.Debug("approximate range match",
				slog.String("cep", cep),
				slog.Int("gap", int(gap)))
			return r.finish(res)
		}
	}

	if km, ok := r.geocode(ctx, cep); ok {
		res.RawKm = km
		res.Source = SourceGeocoder
		return r.finish(res)
	}

	if km, ok := r.regions[res.Region]; ok && km > 0 {
		res.RawKm = km
		res.Source = SourceRegion
		return r.finish(res)
	}

	res.RawKm = r.config.DefaultKm
	res.Source = SourceDefault
	return r.finish(res)
}

func (r *Resolver) matchRule(code uint32) (DestinationRule, bool) {
	if rule, ok := r.exact[code]; ok {
		return rule, true
	}
	for _, rule := range r.spans {
		if rule.Start <= code && code <= rule.End {
			return rule, true
		}
	}
	return DestinationRule{}, false
}

// tablesFor returns the origin-specific table first, then the shared one.
func (r *Resolver) tablesFor(origin string) []*RangeTable {
	var tables []*RangeTable
	if cep, ok := utils.NormalizePostalCode(origin); ok {
		if t, ok := r.byOrigin[cep]; ok {
			tables = append(tables, t)
		}
	}
	if t, ok := r.byOrigin[""]; ok {
		tables = append(tables, t)
	}
	return tables
}

func (r *Resolver) geocode(ctx context.Context, cep string) (float64, bool) {
	if r.geocoder == nil || r.config.Origin == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, r.config.GeocoderTimeout)
	defer cancel()

	dest, err := r.geocoder.Locate(ctx, cep)
	if err != nil {
		r.logger.Warn("geocoder lookup failed, using region fallback",
			slog.String("cep", cep),
			slog.String("error", err.Error()))
		return 0, false
	}
	meters := utils.Haversine(r.config.Origin.Lat, r.config.Origin.Lon, dest.Lat, dest.Lon)
	km := math.Round(meters/1000*r.config.RoadFactor*10) / 10
	return math.Max(1, km), true
}

func (r *Resolver) finish(res Resolution) Resolution {
	res.Km = res.RawKm
	if b := r.config.BucketKm; b > 0 && res.RawKm > 0 {
		res.Km = math.Ceil(res.RawKm/b) * b
	}
	return res
}
