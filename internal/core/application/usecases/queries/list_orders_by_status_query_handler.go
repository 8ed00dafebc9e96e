package queries

import (
	"context"

	"foodrelay/internal/core/ports"
)

// ListOrdersByStatusQueryHandler returns orders newest first.
type ListOrdersByStatusQueryHandler struct {
	orders ports.OrderReader
}

func NewListOrdersByStatusQueryHandler(orders ports.OrderReader) ListOrdersByStatusQueryHandler {
	return ListOrdersByStatusQueryHandler{orders: orders}
}

func (h ListOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersByStatusQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	found, err := h.orders.ListByStatus(ctx, query.Status(), query.CourierID())
	if err != nil {
		return nil, err
	}

	orders := make([]OrderResponse, 0, len(found))
	for _, o := range found {
		orders = append(orders, NewOrderResponse(o))
	}
	return orders, nil
}
