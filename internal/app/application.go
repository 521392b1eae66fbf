package app

import (
	"log/slog"
	"net/http"
	"time"

	"frete.bakoflog.com.br/internal/appconf"
	"frete.bakoflog.com.br/internal/distance"
	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/quote"
	"frete.bakoflog.com.br/internal/reference"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Reference *reference.Manager
	Quotes    *quote.Engine
}

// New loads the reference data and builds the quote engine. It does not
// fail: unreadable reference data degrades to defaults.
func New(cfg appconf.Config, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Token == "" {
		logging.Component(logger, "app").Warn("no token configured, every quote request will be rejected")
	}

	manager := reference.InitManager(ReferenceConfig(cfg), logger)
	return &Application{
		Config:    cfg,
		Logger:    logger,
		Reference: manager,
		Quotes:    quote.NewEngine(manager, logger),
	}
}

// ReferenceConfig maps the service settings to the reference loader and the
// distance resolver.
func ReferenceConfig(cfg appconf.Config) reference.Config {
	rc := reference.Config{
		WorkbookPath: cfg.DataPath,
		RulesPath:    cfg.RulesPath,
		Workbook: reference.WorkbookOptions{
			ConstantsSheet: cfg.ConstantsSheet,
			CatalogSheet:   cfg.CatalogSheet,
			RangesSheet:    cfg.RangesSheet,
			Defaults: reference.Constants{
				PricePerKm:  cfg.PricePerKm,
				TruckLength: cfg.TruckLength,
			},
		},
		Distance: distance.Config{
			DefaultKm:       cfg.DefaultKm,
			BucketKm:        cfg.BucketKm,
			NearestMaxGap:   uint32(cfg.NearestGap),
			RoadFactor:      cfg.RoadFactor,
			GeocoderTimeout: cfg.GeocoderTimeout,
		},
	}

	if cfg.GeocoderURL != "" && cfg.HasOrigin() {
		rc.Distance.Origin = &distance.Coordinates{Lat: cfg.OriginLat, Lon: cfg.OriginLon}
		retries := cfg.GeocoderRetries
		if retries < 0 {
			retries = 0
		}
		httpGeocoder := distance.NewHTTPGeocoder(cfg.GeocoderURL,
			&http.Client{Timeout: cfg.GeocoderTimeout}, uint64(retries), 200*time.Millisecond)
		rc.Geocoder = distance.NewCachedGeocoder(httpGeocoder, 24*time.Hour, 10000)
	}
	return rc
}

// Shutdown stops background work.
func (app *Application) Shutdown() {
	if app.Reference != nil {
		app.Reference.Shutdown()
	}
}
