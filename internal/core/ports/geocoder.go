package ports

import (
	"context"

	"foodrelay/internal/core/domain/model/kernel"
)

// Geocoder resolves a free-text address to a coordinate. Every failure
// (network, timeout, no result, bad payload) is reported as ok == false.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (loc kernel.Location, ok bool)
}
