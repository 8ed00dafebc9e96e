package queries

import (
	"errors"

	"foodrelay/internal/pkg/errs"
	"foodrelay/internal/pkg/guard"
)

var ErrGetCourierRouteQueryIsNotConstructed = errors.New(
	"GetCourierRouteQuery must be created via NewGetCourierRouteQuery constructor",
)

// GetCourierRouteQuery asks for a visiting order of the addresses a courier
// has picked up.
type GetCourierRouteQuery struct {
	courierID int64

	guard guard.ConstructorGuard
}

func NewGetCourierRouteQuery(courierID int64) (GetCourierRouteQuery, error) {
	if courierID == 0 {
		return GetCourierRouteQuery{}, errs.NewValueIsRequiredError("courier id")
	}
	return GetCourierRouteQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierRouteQueryIsNotConstructed)
}

func (q GetCourierRouteQuery) CourierID() int64 {
	return q.courierID
}

// GetCourierRouteQueryResponse lists addresses in suggested visiting order.
type GetCourierRouteQueryResponse struct {
	Addresses []string
}
