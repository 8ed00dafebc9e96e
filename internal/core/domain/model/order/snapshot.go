package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"foodrelay/internal/pkg/errs"
)

// Snapshot is the flat, storage-facing representation of an Order.
// Partner fields are zero while the order is Pending.
type Snapshot struct {
	ID              int64
	RestaurantName  string
	Address         string
	Phone           string
	Details         string
	GroupID         int64
	GroupName       string
	SourceMessageID int64
	CreatedAt       time.Time
	Status          Status
	PartnerID       int64
	PartnerName     string
	PartnerHandle   string
	ETAMinutes      int
	AcceptedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
}

func (s Snapshot) String() string {
	return fmt.Sprintf("order %d (%s)", s.ID, s.Status)
}

// Snapshot exports the current state of the order.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:              o.id,
		RestaurantName:  o.restaurantName,
		Address:         o.address,
		Phone:           o.phone,
		Details:         o.details,
		GroupID:         o.groupID,
		GroupName:       o.groupName,
		SourceMessageID: o.sourceMessageID,
		CreatedAt:       o.createdAt,
		Status:          o.status,
		ETAMinutes:      o.etaMinutes,
		AcceptedAt:      o.acceptedAt,
		PickedUpAt:      o.pickedUpAt,
		DeliveredAt:     o.deliveredAt,
	}
	if o.partner != nil {
		s.PartnerID = o.partner.ID()
		s.PartnerName = o.partner.Name()
		s.PartnerHandle = o.partner.Handle()
	}
	return s
}

// RestoreOrder rebuilds an Order from storage. It rejects snapshots that
// break the lifecycle invariants instead of silently repairing them.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := s.Status.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Address) == "" {
		return nil, errs.NewValueIsRequiredError("address")
	}

	o := &Order{
		id:              s.ID,
		restaurantName:  s.RestaurantName,
		address:         s.Address,
		phone:           s.Phone,
		details:         s.Details,
		groupID:         s.GroupID,
		groupName:       s.GroupName,
		sourceMessageID: s.SourceMessageID,
		createdAt:       s.CreatedAt,
		status:          s.Status,
		etaMinutes:      s.ETAMinutes,
		acceptedAt:      s.AcceptedAt,
		pickedUpAt:      s.PickedUpAt,
		deliveredAt:     s.DeliveredAt,
		isConstructed:   true,
	}

	if s.Status.HasPartner() {
		partner, err := NewPartner(s.PartnerID, s.PartnerName, s.PartnerHandle)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("snapshot", err)
		}
		o.partner = &partner
	} else if s.PartnerID != 0 || s.ETAMinutes != 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("snapshot",
			fmt.Errorf("%s order %d carries partner data", s.Status, s.ID))
	}

	if err := o.checkTimeline(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("snapshot", err)
	}
	return o, nil
}

func (o *Order) checkTimeline() error {
	milestones := []struct {
		status Status
		at     *time.Time
	}{
		{Accepted, o.acceptedAt},
		{PickedUp, o.pickedUpAt},
		{Delivered, o.deliveredAt},
	}

	prev := o.createdAt
	for _, m := range milestones {
		reached := o.status.Reached(m.status)
		switch {
		case reached && m.at == nil:
			return fmt.Errorf("%s timestamp missing", m.status)
		case !reached && m.at != nil:
			return fmt.Errorf("%s timestamp set before the status was reached", m.status)
		case m.at != nil && m.at.Before(prev):
			return errors.New("lifecycle timestamps are out of order")
		}
		if m.at != nil {
			prev = *m.at
		}
	}
	return nil
}
