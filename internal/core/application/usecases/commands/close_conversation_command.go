package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCloseConversationCommandIsNotConstructed = errors.New(
	"CloseConversationCommand must be created via NewCloseConversationCommand constructor",
)

// CloseConversationCommand ends a conversation. Both its customer and any agent may close it.
type CloseConversationCommand struct {
	conversationID kernel.UUID
	by             chat.Participant

	guard guard.ConstructorGuard
}

func NewCloseConversationCommand(conversationID kernel.UUID, by chat.Participant) (CloseConversationCommand, error) {
	if err := errors.Join(conversationID.Validate(), by.ID.Validate()); err != nil {
		return CloseConversationCommand{}, err
	}
	return CloseConversationCommand{
		conversationID: conversationID,
		by:             by,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c CloseConversationCommand) Validate() error {
	return c.guard.Validate(ErrCloseConversationCommandIsNotConstructed)
}

func (c CloseConversationCommand) ConversationID() kernel.UUID { return c.conversationID }
func (c CloseConversationCommand) By() chat.Participant        { return c.by }
