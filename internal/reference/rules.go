package reference

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"frete.bakoflog.com.br/internal/distance"
	"frete.bakoflog.com.br/internal/pricing"
	"frete.bakoflog.com.br/internal/utils"
)

// Rules are the hand-maintained overrides that live next to the workbook.
//
//	pricing:
//	  minimum_price: 150
//	destinations:
//	  - name: CANOAS
//	    cep: 92010-000
//	    km: 310
//	  - name: SERRA GAUCHA
//	    start: "95000000"
//	    end: "95199999"
//	    km: 180
//	regions:
//	  SC: 600
//	products:
//	  FOSSA 1500L:
//	    control_size: 1.6
//	    surcharge_flat: 40
//	services:
//	  - code: ECON
//	    name: Econômico
//	    multiplier: 1.0
//	    lead_time_min: 4
//	    lead_time_max: 7
type Rules struct {
	Pricing      pricing.Adjustments    `yaml:"pricing"`
	Destinations []DestinationRule      `yaml:"destinations"`
	Regions      map[string]float64     `yaml:"regions"`
	Products     map[string]ProductRule `yaml:"products"`
	Services     []Service              `yaml:"services"`
}

// DestinationRule pins the distance of a single CEP or of a CEP interval.
type DestinationRule struct {
	Name  string  `yaml:"name"`
	CEP   string  `yaml:"cep"`
	Start string  `yaml:"start"`
	End   string  `yaml:"end"`
	Km    float64 `yaml:"km"`
}

// ProductRule overrides the catalog for one product. A zero ControlSize
// keeps the catalog or name-based size.
type ProductRule struct {
	ControlSize         float64 `yaml:"control_size"`
	pricing.Adjustments `yaml:",inline"`
}

// Service is a delivery level offered in every quote.
type Service struct {
	Code        string  `yaml:"code" json:"code"`
	Name        string  `yaml:"name" json:"name"`
	Multiplier  float64 `yaml:"multiplier" json:"multiplier"`
	LeadTimeMin int     `yaml:"lead_time_min" json:"leadTimeMin"`
	LeadTimeMax int     `yaml:"lead_time_max" json:"leadTimeMax"`
}

// DefaultServices are offered when the rules file lists none.
func DefaultServices() []Service {
	return []Service{
		{Code: "ECON", Name: "Econômico", Multiplier: 1.00, LeadTimeMin: 4, LeadTimeMax: 7},
		{Code: "EXPR", Name: "Expresso", Multiplier: 1.20, LeadTimeMin: 1, LeadTimeMax: 3},
	}
}

// LoadRules reads a rules file. An empty path yields empty rules.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return Rules{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(b)
}

// ParseRules decodes and validates a rules document. Unknown keys are
// rejected so that typos do not silently disable an override.
func ParseRules(b []byte) (Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("parse rules: %w", err)
	}
	if err := rules.normalize(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r *Rules) normalize() error {
	var errs []error

	for i, d := range r.Destinations {
		if _, _, err := d.bounds(); err != nil {
			errs = append(errs, fmt.Errorf("destinations[%d]: %w", i, err))
		}
	}

	if len(r.Regions) > 0 {
		regions := make(map[string]float64, len(r.Regions))
		for uf, km := range r.Regions {
			if km <= 0 {
				errs = append(errs, fmt.Errorf("regions.%s: km must be positive", uf))
				continue
			}
			regions[strings.ToUpper(strings.TrimSpace(uf))] = km
		}
		r.Regions = regions
	}

	if len(r.Products) > 0 {
		products := make(map[string]ProductRule, len(r.Products))
		for name, rule := range r.Products {
			if rule.ControlSize < 0 {
				errs = append(errs, fmt.Errorf("products.%s: control_size must not be negative", name))
				continue
			}
			if rule.ControlSize == 0 && rule.Adjustments.IsZero() {
				errs = append(errs, fmt.Errorf("products.%s: rule changes neither size nor price", name))
				continue
			}
			products[ProductKey(name)] = rule
		}
		r.Products = products
	}

	for i, s := range r.Services {
		if s.Code == "" {
			errs = append(errs, fmt.Errorf("services[%d]: code is required", i))
		}
		if s.Multiplier < 0 || s.LeadTimeMin < 0 || s.LeadTimeMax < s.LeadTimeMin {
			errs = append(errs, fmt.Errorf("services[%d]: invalid multiplier or lead time", i))
		}
	}

	return errors.Join(errs...)
}

func (d DestinationRule) bounds() (uint32, uint32, error) {
	if d.Km <= 0 {
		return 0, 0, errors.New("km must be positive")
	}
	start, end := d.Start, d.End
	if d.CEP != "" {
		start, end = d.CEP, d.CEP
	}
	s, ok := utils.PadPostalCode(start)
	if !ok {
		return 0, 0, fmt.Errorf("invalid postal code %q", start)
	}
	e, ok := utils.PadPostalCode(end)
	if !ok {
		return 0, 0, fmt.Errorf("invalid postal code %q", end)
	}
	sn, _ := utils.PostalCodeNumber(s)
	en, _ := utils.PostalCodeNumber(e)
	if sn > en {
		return 0, 0, fmt.Errorf("start %s after end %s", s, e)
	}
	return sn, en, nil
}

// DistanceRules converts the destination overrides for the resolver.
func (r Rules) DistanceRules() []distance.DestinationRule {
	out := make([]distance.DestinationRule, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		s, e, err := d.bounds()
		if err != nil {
			continue
		}
		out = append(out, distance.DestinationRule{Name: d.Name, Start: s, End: e, Km: d.Km})
	}
	return out
}

// Product returns the override for a product name, if any.
func (r Rules) Product(name string) (ProductRule, bool) {
	rule, ok := r.Products[ProductKey(name)]
	return rule, ok
}

// ServiceLevels returns the configured services or the defaults.
func (r Rules) ServiceLevels() []Service {
	if len(r.Services) == 0 {
		return DefaultServices()
	}
	out := make([]Service, len(r.Services))
	copy(out, r.Services)
	return out
}
