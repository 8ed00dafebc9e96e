// Package services holds the stateless domain logic of the relay that does not
// belong to a single aggregate:
//   - NormalizeAddress canonicalizes Hungarian street addresses before geocoding
//   - PlanRoute orders geocoded stops with the nearest-neighbor heuristic
//   - ParseOrderMessage turns a restaurant group's chat message into an order draft
//
// Everything here is pure: no I/O, no clocks, no shared state.
package services
