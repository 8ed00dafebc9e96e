package order

import (
	"errors"
	"strings"
	"time"

	"foodrelay/internal/pkg/errs"
)

const (
	// MinETAMinutes and MaxETAMinutes bound the arrival estimate a partner may give.
	MinETAMinutes = 1
	MaxETAMinutes = 240
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrPartnerMismatch is the cause attached when someone other than the
	// accepting partner tries to advance an order.
	ErrPartnerMismatch = errors.New("order belongs to another delivery partner")

	// ErrIDAlreadyAssigned is returned when storage assigns an id twice.
	ErrIDAlreadyAssigned = errors.New("order id is already assigned")
)

// Draft carries the data of a new order as received from a restaurant group.
type Draft struct {
	RestaurantName  string
	Address         string
	Phone           string
	Details         string
	GroupID         int64
	GroupName       string
	SourceMessageID int64
}

// Order is the aggregate root of a delivery order.
//
// Order follows these invariants:
//   - the address is never blank
//   - partner and ETA are unset while Pending and set from Accepted on
//   - the partner identity never changes once set
//   - each lifecycle timestamp is set iff its status was reached, never
//     overwritten, and acceptedAt ≤ pickedUpAt ≤ deliveredAt
type Order struct {
	// id is assigned by storage, 0 until persisted
	id int64

	restaurantName  string
	address         string
	phone           string
	details         string
	groupID         int64
	groupName       string
	sourceMessageID int64
	createdAt       time.Time

	status     Status
	partner    *Partner
	etaMinutes int

	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates a Pending order from a draft. The address is required;
// phone and details default to the empty string.
//
// Example:
//
//	o, err := order.NewOrder(order.Draft{
//	    RestaurantName: "Pizza Bar",
//	    Address:        "1051 Budapest Váci út 1",
//	    GroupID:        -100123,
//	    GroupName:      "Pizza Bar",
//	}, time.Now())
func NewOrder(draft Draft, now time.Time) (*Order, error) {
	address := strings.TrimSpace(draft.Address)
	if address == "" {
		return nil, errs.NewValueIsRequiredError("address")
	}

	return &Order{
		restaurantName:  strings.TrimSpace(draft.RestaurantName),
		address:         address,
		phone:           strings.TrimSpace(draft.Phone),
		details:         strings.TrimSpace(draft.Details),
		groupID:         draft.GroupID,
		groupName:       strings.TrimSpace(draft.GroupName),
		sourceMessageID: draft.SourceMessageID,
		createdAt:       stamp(now, nil),
		status:          Pending,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// AssignID records the storage-assigned identity. It may be called once.
func (o *Order) AssignID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsOutOfRangeError("order id", id, 1, "max int64")
	}
	if o.id != 0 {
		return ErrIDAlreadyAssigned
	}
	o.id = id
	return nil
}

// ID returns the storage-assigned identifier, 0 before the order is persisted.
func (o *Order) ID() int64 {
	return o.id
}

// RestaurantName returns the name of the restaurant that posted the order.
func (o *Order) RestaurantName() string {
	return o.restaurantName
}

// Address returns the delivery address as written by the restaurant.
func (o *Order) Address() string {
	return o.address
}

// Phone returns the customer's phone number, possibly empty.
func (o *Order) Phone() string {
	return o.phone
}

// Details returns the free-form order notes, possibly empty.
func (o *Order) Details() string {
	return o.details
}

// GroupID returns the chat id of the originating restaurant group.
func (o *Order) GroupID() int64 {
	return o.groupID
}

func (o *Order) GroupName() string {
	return o.groupName
}

func (o *Order) SourceMessageID() int64 {
	return o.sourceMessageID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// ETAMinutes returns the partner's arrival estimate, 0 while Pending.
func (o *Order) ETAMinutes() int {
	return o.etaMinutes
}

func (o *Order) AcceptedAt() *time.Time {
	return o.acceptedAt
}

func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Partner returns the delivery partner bound to the order, if any.
func (o *Order) Partner() (Partner, bool) {
	if o.partner == nil {
		return Partner{}, false
	}
	return *o.partner, true
}

// Advance moves the order to target on behalf of actor. It dispatches to
// Accept, PickUp or Deliver; etaMinutes is only read when accepting.
// Targets other than those three fail with an InvalidTransitionError.
func (o *Order) Advance(target Status, actor Partner, etaMinutes int, now time.Time) error {
	switch target {
	case Accepted:
		return o.Accept(actor, etaMinutes, now)
	case PickedUp:
		return o.PickUp(actor, now)
	case Delivered:
		return o.Deliver(actor, now)
	default:
		return errs.NewInvalidTransitionError("order", o.id, o.status.String(), target.String())
	}
}

// Accept claims a Pending order for partner with an arrival estimate.
func (o *Order) Accept(partner Partner, etaMinutes int, now time.Time) error {
	if err := errors.Join(o.Validate(), partner.Validate()); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(Accepted) {
		return errs.NewInvalidTransitionError("order", o.id, o.status.String(), Accepted.String())
	}
	if etaMinutes < MinETAMinutes || etaMinutes > MaxETAMinutes {
		return errs.NewValueIsOutOfRangeError("eta", etaMinutes, MinETAMinutes, MaxETAMinutes)
	}

	o.partner = &partner
	o.etaMinutes = etaMinutes
	o.acceptedAt = ptr(stamp(now, &o.createdAt))
	o.status = Accepted
	return nil
}

// PickUp marks an Accepted order as collected by its partner.
func (o *Order) PickUp(partner Partner, now time.Time) error {
	if err := o.advanceOwned(PickedUp, partner); err != nil {
		return err
	}

	o.pickedUpAt = ptr(stamp(now, o.acceptedAt))
	o.status = PickedUp
	return nil
}

// Deliver closes a PickedUp order.
func (o *Order) Deliver(partner Partner, now time.Time) error {
	if err := o.advanceOwned(Delivered, partner); err != nil {
		return err
	}

	o.deliveredAt = ptr(stamp(now, o.pickedUpAt))
	o.status = Delivered
	return nil
}

// advanceOwned checks the status precondition and the ownership rule for
// transitions after acceptance, then refreshes the partner's display data.
func (o *Order) advanceOwned(target Status, partner Partner) error {
	if err := errors.Join(o.Validate(), partner.Validate()); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError("order", o.id, o.status.String(), target.String())
	}
	if o.partner == nil || !o.partner.SameIdentity(partner) {
		return errs.NewInvalidTransitionErrorWithCause(
			"order", o.id, o.status.String(), target.String(), ErrPartnerMismatch)
	}

	o.partner = &partner
	return nil
}

// stamp normalizes now to UTC with microsecond precision, which is what
// storage keeps, and never returns a value before floor.
func stamp(now time.Time, floor *time.Time) time.Time {
	t := now.UTC().Truncate(time.Microsecond)
	if floor != nil && t.Before(*floor) {
		t = *floor
	}
	return t
}

func ptr(t time.Time) *time.Time {
	return &t
}
