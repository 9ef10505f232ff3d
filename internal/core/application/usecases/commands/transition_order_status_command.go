package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderStatusCommandIsNotConstructed = errors.New(
	"TransitionOrderStatusCommand must be created via NewTransitionOrderStatusCommand constructor",
)

// TransitionOrderStatusCommand asks to move an order to a new status on behalf of actor.
//
// Example:
//
//	cmd, err := NewTransitionOrderStatusCommand(orderID, order.Confirmed, order.StaffActor(staffID))
//	updated, err := handler.Handle(ctx, cmd)
type TransitionOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewTransitionOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	actor order.Actor,
) (TransitionOrderStatusCommand, error) {
	cmd := TransitionOrderStatusCommand{
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return TransitionOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c TransitionOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderStatusCommandIsNotConstructed)
}

func (c TransitionOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c TransitionOrderStatusCommand) Status() order.Status { return c.status }
func (c TransitionOrderStatusCommand) Actor() order.Actor   { return c.actor }

func (c *TransitionOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
