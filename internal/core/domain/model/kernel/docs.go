// Package kernel provides the shared value objects of the order relay domain.
//
// Location is an immutable latitude/longitude pair produced by geocoding and
// consumed by route planning. Its Distance method is the great-circle
// (haversine) distance in kilometres on a sphere of radius EarthRadiusKm.
// The zero value of Location is invalid; build one with NewLocation.
package kernel
