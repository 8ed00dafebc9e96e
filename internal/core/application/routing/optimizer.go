// Package routing suggests a visiting order for the addresses a courier holds.
package routing

import (
	"context"
	"log/slog"

	"foodrelay/internal/core/domain/services"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/metrics"
	"foodrelay/internal/pkg/errs"
)

// DefaultMaxStops caps how many addresses are geocoded per request. Each
// geocode pays the geocoder's courtesy delay, so cost grows linearly.
const DefaultMaxStops = 6

// Optimizer orders addresses with geocoding and the nearest-neighbor heuristic.
// It holds no per-request state and is safe for concurrent use.
type Optimizer struct {
	geocoder ports.Geocoder
	maxStops int
	logger   *slog.Logger
}

func NewOptimizer(geocoder ports.Geocoder, maxStops int, logger *slog.Logger) (*Optimizer, error) {
	if geocoder == nil {
		return nil, errs.NewValueIsRequiredError("geocoder")
	}
	if maxStops < 1 {
		return nil, errs.NewValueIsOutOfRangeError("max stops", maxStops, 1, "unbounded")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Optimizer{
		geocoder: geocoder,
		maxStops: maxStops,
		logger:   logger.With("component", "route_optimizer"),
	}, nil
}

// Optimize returns addresses in suggested visiting order.
//
//   - zero or one address is returned unchanged, without geocoding
//   - only the first maxStops addresses are considered
//   - addresses that fail to geocode are left out of the result
//   - the walk starts at the first address that geocoded
//
// Only address strings are returned; coordinates stay internal.
func (o *Optimizer) Optimize(ctx context.Context, addresses []string) ([]string, error) {
	if len(addresses) <= 1 {
		return addresses, nil
	}

	if len(addresses) > o.maxStops {
		o.logger.Warn("too many addresses, truncating route",
			"requested", len(addresses), "max_stops", o.maxStops)
		addresses = addresses[:o.maxStops]
	}

	stops := make([]services.Stop, 0, len(addresses))
	for _, address := range addresses {
		loc, ok := o.geocoder.Geocode(ctx, address)
		if !ok {
			metrics.RouteStopsDroppedTotal.Inc()
			o.logger.Warn("address could not be geocoded, dropping it from the route", "address", address)
			continue
		}
		stops = append(stops, services.Stop{Address: address, Location: loc})
	}

	route, err := services.PlanRoute(stops)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(route))
	for _, s := range route {
		result = append(result, s.Address)
	}

	o.logger.Info("route optimized", "requested", len(addresses), "routed", len(result))
	return result, nil
}
