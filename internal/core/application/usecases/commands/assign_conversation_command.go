package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignConversationCommandIsNotConstructed = errors.New(
	"AssignConversationCommand must be created via NewAssignConversationCommand constructor",
)

// AssignConversationCommand hands a conversation to a support agent.
type AssignConversationCommand struct {
	conversationID kernel.UUID
	agentID        kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignConversationCommand(conversationID, agentID kernel.UUID) (AssignConversationCommand, error) {
	if err := errors.Join(conversationID.Validate(), agentID.Validate()); err != nil {
		return AssignConversationCommand{}, err
	}
	return AssignConversationCommand{
		conversationID: conversationID,
		agentID:        agentID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c AssignConversationCommand) Validate() error {
	return c.guard.Validate(ErrAssignConversationCommandIsNotConstructed)
}

func (c AssignConversationCommand) ConversationID() kernel.UUID { return c.conversationID }
func (c AssignConversationCommand) AgentID() kernel.UUID        { return c.agentID }
