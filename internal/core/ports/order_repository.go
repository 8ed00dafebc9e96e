// Package ports declares the collaborators the relay core depends on:
// order storage, the unit of work around it, the outbound messenger and the
// geocoder. Adapters under internal/adapters implement them.
package ports

import (
	"context"
	"errors"

	"foodrelay/internal/core/domain/model/order"
)

// ErrStatusConflict is returned by UpdateStatus when the stored status (or
// owner) no longer matches what the caller read. The update is not applied.
var ErrStatusConflict = errors.New("order status changed concurrently")

// OrderReader is the read side of order storage.
type OrderReader interface {
	// Get returns the order with the given id, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// ListByStatus returns orders in status, newest first. A non-nil
	// partnerID restricts the result to that delivery partner's orders.
	ListByStatus(ctx context.Context, status order.Status, partnerID *int64) ([]*order.Order, error)

	// ListAddressesForPartner returns the addresses of the partner's orders
	// in status, oldest first.
	ListAddressesForPartner(ctx context.Context, partnerID int64, status order.Status) ([]string, error)
}

// OrderRepository is the persistence contract of the Order aggregate.
type OrderRepository interface {
	OrderReader

	// Add persists a new order and assigns its id.
	Add(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus writes the order's lifecycle fields, but only if the stored
	// status still equals expected and, past acceptance, the stored partner is
	// the order's partner. Otherwise nothing is written and ErrStatusConflict
	// is returned. This compare-and-swap is what makes at most one of two
	// racing transitions succeed.
	UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error
}
