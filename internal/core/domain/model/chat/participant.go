package chat

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Participant is whoever acts on a conversation: its customer or a support agent.
type Participant struct {
	ID   kernel.UUID
	Type SenderType
}

func Customer(id kernel.UUID) Participant { return Participant{ID: id, Type: SenderCustomer} }
func Agent(id kernel.UUID) Participant    { return Participant{ID: id, Type: SenderAgent} }

// CanAccess checks that p may read or write c. Agents may access any
// conversation; a customer only their own.
func (p Participant) CanAccess(c *Conversation) error {
	switch p.Type {
	case SenderAgent:
		return nil
	case SenderCustomer:
		if c.IsCustomer(p.ID) {
			return nil
		}
		return fmt.Errorf("%w: conversation %s belongs to another customer", errs.ErrUnauthorized, c.ID())
	default:
		return fmt.Errorf("%w: unknown participant type %q", errs.ErrUnauthorized, p.Type)
	}
}
