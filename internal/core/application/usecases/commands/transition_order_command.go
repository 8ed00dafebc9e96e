package commands

import (
	"errors"
	"strings"

	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/pkg/errs"
	"foodrelay/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move an order to target on behalf of a
// delivery partner. ETAMinutes is only meaningful when target is Accepted.
//
// Example:
//
//	partner, _ := order.NewPartner(42, "Kovács Anna", "anna")
//	cmd, err := NewTransitionOrderCommand(7, order.Accepted, partner, 20)
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInvalidTransition) {
//	    // someone else was faster, or the order moved on
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    int64
	target     order.Status
	partner    order.Partner
	etaMinutes int

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand validates the command. The target itself is not
// checked against the lifecycle here: an impossible target is reported as an
// invalid transition once the order has been loaded.
func NewTransitionOrderCommand(
	orderID int64,
	target order.Status,
	partner order.Partner,
	etaMinutes int,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPartner(partner),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	cmd.target = target
	cmd.etaMinutes = etaMinutes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

func (c TransitionOrderCommand) Partner() order.Partner {
	return c.partner
}

func (c TransitionOrderCommand) ETAMinutes() int {
	return c.etaMinutes
}

func (c *TransitionOrderCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsOutOfRangeError("order id", orderID, 1, "max int64")
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setPartner(partner order.Partner) error {
	if err := partner.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partner", err)
	}

	c.partner = partner
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
