package http

import (
	"time"

	"foodrelay/internal/core/application/usecases/queries"
)

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	RestaurantName  string `json:"restaurantName"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Details         string `json:"details"`
	GroupID         int64  `json:"groupId"`
	GroupName       string `json:"groupName"`
	SourceMessageID int64  `json:"sourceMessageId"`
}

// GroupMessage is the body of POST /api/v1/groups/{groupId}/messages.
type GroupMessage struct {
	Text      string `json:"text"`
	GroupName string `json:"groupName"`
	MessageID int64  `json:"messageId"`
}

// Transition is the body of POST /api/v1/orders/{orderId}/transitions.
type Transition struct {
	Target        string `json:"target"`
	PartnerID     int64  `json:"partnerId"`
	PartnerName   string `json:"partnerName"`
	PartnerHandle string `json:"partnerHandle"`
	ETAMinutes    int    `json:"etaMinutes"`
}

type Partner struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle,omitempty"`
}

type Order struct {
	ID              int64      `json:"id"`
	RestaurantName  string     `json:"restaurantName"`
	Address         string     `json:"address"`
	Phone           string     `json:"phone"`
	Details         string     `json:"details"`
	GroupID         int64      `json:"groupId"`
	GroupName       string     `json:"groupName"`
	SourceMessageID int64      `json:"sourceMessageId,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	Partner         *Partner   `json:"partner,omitempty"`
	ETAMinutes      *int       `json:"etaMinutes,omitempty"`
	AcceptedAt      *time.Time `json:"acceptedAt,omitempty"`
	PickedUpAt      *time.Time `json:"pickedUpAt,omitempty"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
}

type Route struct {
	Addresses []string `json:"addresses"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ListOrdersParams are the query parameters of GET /api/v1/orders.
type ListOrdersParams struct {
	Status    string
	CourierID *int64
}

func toOrder(r queries.OrderResponse) Order {
	o := Order{
		ID:              r.ID,
		RestaurantName:  r.RestaurantName,
		Address:         r.Address,
		Phone:           r.Phone,
		Details:         r.Details,
		GroupID:         r.GroupID,
		GroupName:       r.GroupName,
		SourceMessageID: r.SourceMessageID,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		AcceptedAt:      r.AcceptedAt,
		PickedUpAt:      r.PickedUpAt,
		DeliveredAt:     r.DeliveredAt,
	}
	if r.PartnerID != 0 {
		eta := r.ETAMinutes
		o.Partner = &Partner{ID: r.PartnerID, Name: r.PartnerName, Handle: r.PartnerHandle}
		o.ETAMinutes = &eta
	}
	return o
}

func toOrders(rs []queries.OrderResponse) []Order {
	orders := make([]Order, 0, len(rs))
	for _, r := range rs {
		orders = append(orders, toOrder(r))
	}
	return orders
}
