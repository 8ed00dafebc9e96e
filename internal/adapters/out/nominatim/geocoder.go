// Package nominatim resolves addresses through an OpenStreetMap Nominatim
// search endpoint.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"foodrelay/internal/core/domain/model/kernel"
	"foodrelay/internal/core/domain/services"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/metrics"
	"foodrelay/internal/pkg/errs"
)

const (
	DefaultBaseURL       = "https://nominatim.openstreetmap.org/search"
	DefaultUserAgent     = "foodrelay/1.0 (delivery navigation)"
	DefaultCountryCode   = "hu"
	DefaultCourtesyDelay = 500 * time.Millisecond
	DefaultTimeout       = 10 * time.Second

	maxResponseBytes = 1 << 20
)

var _ ports.Geocoder = (*Geocoder)(nil)

type Config struct {
	BaseURL       string
	UserAgent     string
	CountryCode   string
	CourtesyDelay time.Duration
	Timeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		UserAgent:     DefaultUserAgent,
		CountryCode:   DefaultCountryCode,
		CourtesyDelay: DefaultCourtesyDelay,
		Timeout:       DefaultTimeout,
	}
}

// Geocoder is safe for concurrent use. Each call waits the courtesy delay
// before it reaches the network.
type Geocoder struct {
	client   *http.Client
	endpoint *url.URL
	cfg      Config
	logger   *slog.Logger
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func NewGeocoder(cfg Config, client *http.Client, logger *slog.Logger) (*Geocoder, error) {
	endpoint, err := url.Parse(cfg.BaseURL)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("geocoder url",
			fmt.Errorf("%q is not an absolute url", cfg.BaseURL))
	}
	if cfg.UserAgent == "" {
		return nil, errs.NewValueIsRequiredError("geocoder user agent")
	}
	if cfg.CourtesyDelay < 0 {
		return nil, errs.NewValueIsOutOfRangeError("geocoder courtesy delay", cfg.CourtesyDelay, 0, "unbounded")
	}
	if cfg.Timeout <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("geocoder timeout", cfg.Timeout, "1ns", "unbounded")
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Geocoder{
		client:   client,
		endpoint: endpoint,
		cfg:      cfg,
		logger:   logger.With("component", "geocoder"),
	}, nil
}

// Geocode returns the first match for the normalized address. Every failure
// is logged and reported as ok == false.
func (g *Geocoder) Geocode(ctx context.Context, address string) (kernel.Location, bool) {
	query := services.NormalizeAddress(address)
	if query == "" {
		metrics.GeocodeRequestsTotal.WithLabelValues("skipped").Inc()
		return kernel.Location{}, false
	}

	start := time.Now()
	defer func() { metrics.GeocodeDuration.Observe(time.Since(start).Seconds()) }()

	if err := sleepContext(ctx, g.cfg.CourtesyDelay); err != nil {
		g.fail("error", query, err)
		return kernel.Location{}, false
	}

	loc, found, err := g.search(ctx, query)
	switch {
	case err != nil:
		g.fail("error", query, err)
		return kernel.Location{}, false
	case !found:
		g.fail("not_found", query, nil)
		return kernel.Location{}, false
	}

	metrics.GeocodeRequestsTotal.WithLabelValues("ok").Inc()
	return loc, true
}

func (g *Geocoder) search(ctx context.Context, query string) (kernel.Location, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	u := *g.endpoint
	params := u.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	if g.cfg.CountryCode != "" {
		params.Set("countrycodes", g.cfg.CountryCode)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return kernel.Location{}, false, err
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return kernel.Location{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return kernel.Location{}, false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var places []place
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&places); err != nil {
		return kernel.Location{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return kernel.Location{}, false, nil
	}

	return places[0].location()
}

func (p place) location() (kernel.Location, bool, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return kernel.Location{}, false, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return kernel.Location{}, false, fmt.Errorf("parse lon: %w", err)
	}

	loc, err := kernel.NewLocation(lat, lon)
	if err != nil {
		return kernel.Location{}, false, err
	}
	return loc, true, nil
}

func (g *Geocoder) fail(outcome, query string, err error) {
	metrics.GeocodeRequestsTotal.WithLabelValues(outcome).Inc()
	if err != nil {
		g.logger.Warn("geocoding failed", "address", query, "error", err)
		return
	}
	g.logger.Warn("address not found", "address", query)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
