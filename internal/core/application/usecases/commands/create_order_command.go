package commands

import (
	"errors"

	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/pkg/errs"
	"foodrelay/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a restaurant group's request for a courier.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(order.Draft{
//	    RestaurantName: "Pizza Bar",
//	    Address:        "1051 Budapest Váci út 1",
//	    GroupID:        -100123,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	draft order.Draft

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the draft. The address and the originating
// group are mandatory.
func NewCreateOrderCommand(draft order.Draft) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDraft(draft); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Draft() order.Draft {
	return c.draft
}

func (c *CreateOrderCommand) setDraft(draft order.Draft) error {
	var problems []error
	if isBlank(draft.Address) {
		problems = append(problems, errs.NewValueIsRequiredError("address"))
	}
	if draft.GroupID == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("group id"))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	c.draft = draft
	return nil
}
