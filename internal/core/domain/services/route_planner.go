package services

import (
	"math"

	"foodrelay/internal/core/domain/model/kernel"
)

// Stop is an address together with the coordinate it geocoded to.
type Stop struct {
	Address  string
	Location kernel.Location
}

// PlanRoute orders stops with a greedy nearest-neighbor walk.
//
// The walk starts at stops[0], not at the globally closest pair. From the
// current stop it moves to the unvisited stop with the smallest haversine
// distance; on equal distances the one given earlier wins. Zero or one stop
// is returned unchanged.
//
// The result is an approximation of the shortest tour, not the optimum.
//
// Example:
//
//	route, err := services.PlanRoute([]services.Stop{
//	    {Address: "1051 Budapest Váci utca 1", Location: deak},
//	    {Address: "1087 Budapest Kerepesi utca 2", Location: keleti},
//	})
func PlanRoute(stops []Stop) ([]Stop, error) {
	for _, s := range stops {
		if err := s.Location.Validate(); err != nil {
			return nil, err
		}
	}
	if len(stops) <= 1 {
		return stops, nil
	}

	remaining := make([]Stop, len(stops)-1)
	copy(remaining, stops[1:])

	route := make([]Stop, 0, len(stops))
	current := stops[0]
	route = append(route, current)

	for len(remaining) > 0 {
		next, err := nearest(current, remaining)
		if err != nil {
			return nil, err
		}

		current = remaining[next]
		route = append(route, current)
		remaining = append(remaining[:next], remaining[next+1:]...)
	}

	return route, nil
}

// nearest returns the index of the candidate closest to from. Ties keep the
// first candidate.
func nearest(from Stop, candidates []Stop) (int, error) {
	var (
		best     int
		bestDist = math.Inf(1)
	)

	for i, c := range candidates {
		d, err := from.Location.Distance(c.Location)
		if err != nil {
			return 0, err
		}

		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	return best, nil
}
