package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDispatchReadyOrderCommandIsNotConstructed = errors.New(
	"DispatchReadyOrderCommand must be created via NewDispatchReadyOrderCommand constructor",
)

// DispatchReadyOrderCommand asks to hand the oldest ready order to a free
// driver of its branch.
//
// Example:
//
//	cmd := NewDispatchReadyOrderCommand()
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoOrderFound) {
//	    // nothing is waiting
//	}
type DispatchReadyOrderCommand struct {
	guard guard.ConstructorGuard
}

func NewDispatchReadyOrderCommand() DispatchReadyOrderCommand {
	return DispatchReadyOrderCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c DispatchReadyOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchReadyOrderCommandIsNotConstructed)
}
