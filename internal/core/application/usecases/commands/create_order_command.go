package commands

import (
	"errors"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// CreateOrderCommand represents a checkout submitted by a customer or a guest.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), order.Checkout{
//	    UserID:        &userID,
//	    BranchID:      branchID,
//	    Items:         items,
//	    Total:         decimal.RequireFromString("24.90"),
//	    PaymentMethod: "cash",
//	    Shipping:      shipping,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	checkout order.Checkout

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand checks the request shape: an order id, at least one
// item and a positive total. The order aggregate validates the rest.
func NewCreateOrderCommand(orderID kernel.UUID, checkout order.Checkout) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCheckout(checkout),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Checkout returns a copy of the submitted checkout.
func (c CreateOrderCommand) Checkout() order.Checkout {
	checkout := c.checkout
	checkout.Items = slices.Clone(c.checkout.Items)
	return checkout
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCheckout(checkout order.Checkout) error {
	var problems []error
	if len(checkout.Items) == 0 {
		problems = append(problems, ErrItemsAreRequired)
	}
	if !checkout.Total.IsPositive() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("%s is not greater than 0", checkout.Total)))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	checkout.Items = slices.Clone(checkout.Items)
	c.checkout = checkout
	return nil
}
