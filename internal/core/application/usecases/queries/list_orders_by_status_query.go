package queries

import (
	"errors"

	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/pkg/errs"
	"foodrelay/internal/pkg/guard"
)

var ErrListOrdersByStatusQueryIsNotConstructed = errors.New(
	"ListOrdersByStatusQuery must be created via NewListOrdersByStatusQuery constructor",
)

// ListOrdersByStatusQuery lists orders in one status.
//
// Pending orders are open to every courier, so the courier filter is ignored
// for them. Every other status lists a single courier's orders and requires
// courierID.
//
// Example:
//
//	courier := int64(42)
//	query, err := NewListOrdersByStatusQuery(order.PickedUp, &courier)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type ListOrdersByStatusQuery struct {
	status    order.Status
	courierID *int64

	guard guard.ConstructorGuard
}

func NewListOrdersByStatusQuery(status order.Status, courierID *int64) (ListOrdersByStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return ListOrdersByStatusQuery{}, err
	}

	q := ListOrdersByStatusQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}

	if status != order.Pending {
		if courierID == nil || *courierID == 0 {
			return ListOrdersByStatusQuery{}, errs.NewValueIsRequiredError("courier id")
		}
		id := *courierID
		q.courierID = &id
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersByStatusQueryIsNotConstructed)
}

func (q ListOrdersByStatusQuery) Status() order.Status {
	return q.status
}

// CourierID is nil for pending listings.
func (q ListOrdersByStatusQuery) CourierID() *int64 {
	return q.courierID
}
