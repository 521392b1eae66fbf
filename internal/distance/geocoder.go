package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"frete.bakoflog.com.br/internal/utils"
)

// ErrLookupFailed is returned when a CEP cannot be turned into coordinates.
var ErrLookupFailed = errors.New("postal code lookup failed")

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Geocoder resolves a CEP to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, cep string) (Coordinates, error)
}

// HTTPGeocoder queries a CEP web service. The URL template receives the
// 8-digit CEP through a single %s verb, e.g.
// https://brasilapi.com.br/api/cep/v2/%s.
type HTTPGeocoder struct {
	urlTemplate string
	http        *http.Client
	retries     uint64
	backoff     time.Duration
}

// NewHTTPGeocoder builds a geocoder. retries is the number of extra attempts
// after the first failure.
func NewHTTPGeocoder(urlTemplate string, httpClient *http.Client, retries uint64, backoff time.Duration) *HTTPGeocoder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &HTTPGeocoder{urlTemplate: urlTemplate, http: httpClient, retries: retries, backoff: backoff}
}

func (g *HTTPGeocoder) Locate(ctx context.Context, cep string) (Coordinates, error) {
	var coords Coordinates
	b := retry.WithMaxRetries(g.retries, retry.NewConstant(g.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		c, err := g.fetch(ctx, cep)
		if err != nil {
			return err
		}
		coords = c
		return nil
	})
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %s: %v", ErrLookupFailed, cep, err)
	}
	return coords, nil
}

func (g *HTTPGeocoder) fetch(ctx context.Context, cep string) (Coordinates, error) {
	url := fmt.Sprintf(g.urlTemplate, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return Coordinates{}, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("cep service %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return Coordinates{}, retry.RetryableError(err)
		}
		return Coordinates{}, err
	}

	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&raw); err != nil {
		return Coordinates{}, fmt.Errorf("decode cep response: %w", err)
	}
	return coordinatesFromResponse(raw)
}

// coordinatesFromResponse accepts the shapes seen in CEP services:
// location.coordinates.{latitude,longitude} (possibly as strings) or flat
// lat/lng fields.
func coordinatesFromResponse(raw map[string]any) (Coordinates, error) {
	var lat, lon float64
	if loc, ok := raw["location"].(map[string]any); ok {
		if coords, ok := loc["coordinates"].(map[string]any); ok {
			lat, _ = toF64(coords["latitude"])
			lon, _ = toF64(coords["longitude"])
		}
	}
	if lat == 0 && lon == 0 {
		lat, _ = toF64(raw["lat"])
		lon, _ = toF64(firstOf(raw, "lng", "lon"))
	}
	if !utils.ValidCoordinates(lat, lon) {
		return Coordinates{}, errors.New("response has no coordinates")
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

func firstOf(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

func toF64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CachedGeocoder memoizes successful lookups and collapses concurrent lookups
// of the same CEP into one upstream call.
type CachedGeocoder struct {
	next       Geocoder
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cachedCoordinates
}

type cachedCoordinates struct {
	coords  Coordinates
	expires time.Time
}

// NewCachedGeocoder wraps next. When the cache reaches maxEntries it is
// cleared rather than evicted entry by entry.
func NewCachedGeocoder(next Geocoder, ttl time.Duration, maxEntries int) *CachedGeocoder {
	return &CachedGeocoder{
		next:       next,
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		cache:      make(map[string]cachedCoordinates),
	}
}

func (c *CachedGeocoder) Locate(ctx context.Context, cep string) (Coordinates, error) {
	c.mu.Lock()
	entry, ok := c.cache[cep]
	c.mu.Unlock()
	if ok && c.now().Before(entry.expires) {
		return entry.coords, nil
	}

	v, err, _ := c.group.Do(cep, func() (any, error) {
		coords, err := c.next.Locate(ctx, cep)
		if err != nil {
			return Coordinates{}, err
		}
		c.mu.Lock()
		if c.maxEntries > 0 && len(c.cache) >= c.maxEntries {
			c.cache = make(map[string]cachedCoordinates)
		}
		c.cache[cep] = cachedCoordinates{coords: coords, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return coords, nil
	})
	if err != nil {
		return Coordinates{}, err
	}
	return v.(Coordinates), nil
}
