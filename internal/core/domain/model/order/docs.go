// Package order holds the Order aggregate of the relay and its lifecycle rules.
//
// An order is created from a restaurant group's message in Pending status and
// then moves strictly forward, one step at a time:
//
//	Pending ──> Accepted ──> PickedUp ──> Delivered
//
// Accepting binds the order to a delivery Partner and records an ETA. From then
// on only that partner may advance it; the partner's display name and handle
// may be refreshed, the identity never changes. Each transition stamps its own
// timestamp exactly once and the stamps never go backwards
// (acceptedAt ≤ pickedUpAt ≤ deliveredAt).
//
// Orders are never deleted. Persistence goes through Snapshot/RestoreOrder so
// that storage adapters cannot bypass these invariants.
package order
