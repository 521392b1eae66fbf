// Package appconf holds the service settings and reads them from flags,
// environment variables and an optional .env file.
package appconf

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting of the service.
type Config struct {
	Port      int
	Env       Environment
	Token     string
	RateLimit int
	LogLevel  string

	DataPath       string
	RulesPath      string
	ConstantsSheet string
	CatalogSheet   string
	RangesSheet    string
	Watch          bool

	PricePerKm  float64
	TruckLength float64
	DefaultKm   float64
	BucketKm    float64
	NearestGap  uint

	GeocoderURL     string
	GeocoderTimeout time.Duration
	GeocoderRetries int
	OriginLat       float64
	OriginLon       float64
	RoadFactor      float64
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:            8080,
		Env:             Development,
		RateLimit:       20,
		LogLevel:        "info",
		ConstantsSheet:  "D",
		CatalogSheet:    "CADASTRO_PRODUTO",
		RangesSheet:     "FAIXAS_CEP",
		PricePerKm:      7.0,
		TruckLength:     8.5,
		DefaultKm:       100,
		NearestGap:      100000,
		GeocoderTimeout: 3 * time.Second,
		GeocoderRetries: 2,
		RoadFactor:      1.3,
	}
}

// LoadDotEnv loads variables from the given files into the environment.
// Variables already set are kept and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// RegisterFlags binds every setting to a flag whose default comes from the
// environment, falling back to Defaults.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	d := Defaults()

	cfg.Env = EnvFlagToEnvironment(envString("FRETE_ENV", d.Env.String()))
	fs.IntVar(&cfg.Port, "port", envInt("PORT", d.Port), "API server port")
	fs.Var((*environmentValue)(&cfg.Env), "env", "Environment (development|test|production)")
	fs.StringVar(&cfg.Token, "token", envString("FRETE_TOKEN", ""), "Shared secret expected in the token parameter")
	fs.IntVar(&cfg.RateLimit, "rate-limit", envInt("FRETE_RATE_LIMIT", d.RateLimit), "Requests per second allowed per token (negative disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", envString("FRETE_LOG_LEVEL", d.LogLevel), "Log level (debug|info|warn|error)")

	fs.StringVar(&cfg.DataPath, "data", envString("FRETE_DATA", ""), "Path to the reference workbook (.xlsx)")
	fs.StringVar(&cfg.RulesPath, "rules", envString("FRETE_RULES", ""), "Path to the YAML rules file")
	fs.StringVar(&cfg.ConstantsSheet, "sheet-constants", envString("FRETE_SHEET_CONSTANTS", d.ConstantsSheet), "Sheet holding price per km and truck length")
	fs.StringVar(&cfg.CatalogSheet, "sheet-catalog", envString("FRETE_SHEET_CATALOG", d.CatalogSheet), "Sheet holding the product catalog")
	fs.StringVar(&cfg.RangesSheet, "sheet-ranges", envString("FRETE_SHEET_RANGES", d.RangesSheet), "Sheet holding postal code ranges")
	fs.BoolVar(&cfg.Watch, "watch", envBool("FRETE_WATCH", false), "Reload reference data when the files change")

	fs.Float64Var(&cfg.PricePerKm, "price-per-km", envFloat("FRETE_PRICE_PER_KM", d.PricePerKm), "Price per km when the workbook has none")
	fs.Float64Var(&cfg.TruckLength, "truck-length", envFloat("FRETE_TRUCK_LENGTH", d.TruckLength), "Truck length in meters when the workbook has none")
	fs.Float64Var(&cfg.DefaultKm, "default-km", envFloat("FRETE_DEFAULT_KM", d.DefaultKm), "Distance used when nothing else matches")
	fs.Float64Var(&cfg.BucketKm, "bucket-km", envFloat("FRETE_BUCKET_KM", d.BucketKm), "Round distances up to multiples of this width (0 disables)")
	fs.UintVar(&cfg.NearestGap, "nearest-gap", uint(envInt("FRETE_NEAREST_GAP", int(d.NearestGap))), "Maximum CEP gap for approximate range matches (0 disables)")

	fs.StringVar(&cfg.GeocoderURL, "geocoder-url", envString("FRETE_GEOCODER_URL", ""), "CEP lookup URL with a %s placeholder (empty disables)")
	fs.DurationVar(&cfg.GeocoderTimeout, "geocoder-timeout", envDuration("FRETE_GEOCODER_TIMEOUT", d.GeocoderTimeout), "Timeout for one geocoder lookup")
	fs.IntVar(&cfg.GeocoderRetries, "geocoder-retries", envInt("FRETE_GEOCODER_RETRIES", d.GeocoderRetries), "Extra geocoder attempts after a failure")
	fs.Float64Var(&cfg.OriginLat, "origin-lat", envFloat("FRETE_ORIGIN_LAT", 0), "Latitude of the dispatch point")
	fs.Float64Var(&cfg.OriginLon, "origin-lon", envFloat("FRETE_ORIGIN_LON", 0), "Longitude of the dispatch point")
	fs.Float64Var(&cfg.RoadFactor, "road-factor", envFloat("FRETE_ROAD_FACTOR", d.RoadFactor), "Road distance over straight-line distance")
}

type environmentValue Environment

func (e *environmentValue) String() string { return Environment(*e).String() }

func (e *environmentValue) Set(s string) error {
	*e = environmentValue(EnvFlagToEnvironment(s))
	return nil
}

// Validate reports every setting that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.PricePerKm <= 0 {
		errs = append(errs, errors.New("price per km must be positive"))
	}
	if c.TruckLength <= 0 {
		errs = append(errs, errors.New("truck length must be positive"))
	}
	if c.DefaultKm <= 0 {
		errs = append(errs, errors.New("default km must be positive"))
	}
	if c.BucketKm < 0 {
		errs = append(errs, errors.New("bucket km must not be negative"))
	}
	if c.GeocoderURL != "" && strings.Count(c.GeocoderURL, "%s") != 1 {
		errs = append(errs, errors.New("geocoder url needs exactly one %s placeholder"))
	}
	if c.GeocoderRetries < 0 {
		errs = append(errs, errors.New("geocoder retries must not be negative"))
	}
	if c.RoadFactor < 1 {
		errs = append(errs, errors.New("road factor must be at least 1"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HasOrigin reports whether dispatch coordinates were configured.
func (c Config) HasOrigin() bool {
	return c.OriginLat != 0 || c.OriginLon != 0
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(envString(key, "")); err == nil {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.Replace(envString(key, ""), ",", ".", 1)
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(envString(key, "")); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(envString(key, "")); err == nil {
		return v
	}
	return fallback
}
