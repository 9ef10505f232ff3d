package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrOpenConversationCommandIsNotConstructed = errors.New(
	"OpenConversationCommand must be created via NewOpenConversationCommand constructor",
)

// OpenConversationCommand returns the customer's active support conversation,
// starting one if none is open.
type OpenConversationCommand struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewOpenConversationCommand(customerID kernel.UUID) (OpenConversationCommand, error) {
	if err := customerID.Validate(); err != nil {
		return OpenConversationCommand{}, err
	}
	return OpenConversationCommand{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (c OpenConversationCommand) Validate() error {
	return c.guard.Validate(ErrOpenConversationCommandIsNotConstructed)
}

func (c OpenConversationCommand) CustomerID() kernel.UUID { return c.customerID }
