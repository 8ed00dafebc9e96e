package order

import (
	"fmt"

	"foodrelay/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Pending ──> Accepted ──> PickedUp ──> Delivered
//
// There are no skips and no regressions; Delivered is final.
type Status int

const (
	// Unknown catches uninitialized values and is never valid.
	Unknown Status = iota

	// Pending orders wait for a delivery partner to claim them.
	Pending

	// Accepted orders are claimed by a partner who supplied an ETA.
	Accepted

	// PickedUp orders are on their way to the customer.
	PickedUp

	// Delivered is the final state.
	Delivered
)

var statusNames = map[Status]string{
	Unknown:   "unknown",
	Pending:   "pending",
	Accepted:  "accepted",
	PickedUp:  "picked_up",
	Delivered: "delivered",
}

// ParseStatus converts the wire/storage name of a status ("pending",
// "accepted", "picked_up", "delivered") into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the storage name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// Next returns the only status reachable from s.
func (s Status) Next() (Status, error) {
	switch s {
	case Pending:
		return Accepted, nil
	case Accepted:
		return PickedUp, nil
	case PickedUp:
		return Delivered, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s has no successor", s),
		)
	}
}

// CanTransitionTo reports whether target is the immediate successor of s.
func (s Status) CanTransitionTo(target Status) bool {
	next, err := s.Next()
	return err == nil && next == target
}

// HasPartner reports whether orders in this status are bound to a delivery partner.
func (s Status) HasPartner() bool {
	return s == Accepted || s == PickedUp || s == Delivered
}

// Reached reports whether s is milestone or a later status.
func (s Status) Reached(milestone Status) bool {
	return s.Validate() == nil && s >= milestone
}
