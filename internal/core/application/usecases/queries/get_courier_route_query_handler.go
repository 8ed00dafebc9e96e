package queries

import (
	"context"
	"errors"
	"strings"

	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/core/ports"
)

// ErrNoRoutableAddresses is returned when the courier holds no picked-up
// order with an address, or none of the addresses could be geocoded.
var ErrNoRoutableAddresses = errors.New("no routable addresses")

// RouteOptimizer orders raw addresses for a visit.
type RouteOptimizer interface {
	Optimize(ctx context.Context, addresses []string) ([]string, error)
}

// GetCourierRouteQueryHandler reads the courier's picked-up addresses in
// creation order and hands them to the optimizer.
//
// Example:
//
//	query, _ := NewGetCourierRouteQuery(42)
//	route, err := handler.Handle(ctx, query)
//	if errors.Is(err, ErrNoRoutableAddresses) {
//	    // nothing to route
//	}
type GetCourierRouteQueryHandler struct {
	orders    ports.OrderReader
	optimizer RouteOptimizer
}

func NewGetCourierRouteQueryHandler(orders ports.OrderReader, optimizer RouteOptimizer) GetCourierRouteQueryHandler {
	return GetCourierRouteQueryHandler{orders: orders, optimizer: optimizer}
}

func (h GetCourierRouteQueryHandler) Handle(
	ctx context.Context,
	query GetCourierRouteQuery,
) (GetCourierRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierRouteQueryResponse{}, err
	}

	stored, err := h.orders.ListAddressesForPartner(ctx, query.CourierID(), order.PickedUp)
	if err != nil {
		return GetCourierRouteQueryResponse{}, err
	}

	addresses := make([]string, 0, len(stored))
	for _, a := range stored {
		if strings.TrimSpace(a) != "" {
			addresses = append(addresses, a)
		}
	}
	if len(addresses) == 0 {
		return GetCourierRouteQueryResponse{}, ErrNoRoutableAddresses
	}

	route, err := h.optimizer.Optimize(ctx, addresses)
	if err != nil {
		return GetCourierRouteQueryResponse{}, err
	}
	if len(route) == 0 {
		return GetCourierRouteQueryResponse{}, ErrNoRoutableAddresses
	}

	return GetCourierRouteQueryResponse{Addresses: route}, nil
}
