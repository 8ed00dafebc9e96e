// Package queries contains the read operations of the relay.
// Query handlers never change state and work on any ports.OrderReader.
package queries

import (
	"time"

	"foodrelay/internal/core/domain/model/order"
)

// OrderResponse is the read model of an order shared by all queries.
// Partner fields are empty while the order is pending.
type OrderResponse struct {
	ID              int64
	RestaurantName  string
	Address         string
	Phone           string
	Details         string
	GroupID         int64
	GroupName       string
	SourceMessageID int64
	Status          string
	CreatedAt       time.Time
	PartnerID       int64
	PartnerName     string
	PartnerHandle   string
	ETAMinutes      int
	AcceptedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
}

// NewOrderResponse flattens an order aggregate.
func NewOrderResponse(o *order.Order) OrderResponse {
	s := o.Snapshot()
	return OrderResponse{
		ID:              s.ID,
		RestaurantName:  s.RestaurantName,
		Address:         s.Address,
		Phone:           s.Phone,
		Details:         s.Details,
		GroupID:         s.GroupID,
		GroupName:       s.GroupName,
		SourceMessageID: s.SourceMessageID,
		Status:          s.Status.String(),
		CreatedAt:       s.CreatedAt,
		PartnerID:       s.PartnerID,
		PartnerName:     s.PartnerName,
		PartnerHandle:   s.PartnerHandle,
		ETAMinutes:      s.ETAMinutes,
		AcceptedAt:      s.AcceptedAt,
		PickedUpAt:      s.PickedUpAt,
		DeliveredAt:     s.DeliveredAt,
	}
}
