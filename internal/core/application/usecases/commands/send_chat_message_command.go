package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSendChatMessageCommandIsNotConstructed = errors.New(
	"SendChatMessageCommand must be created via NewSendChatMessageCommand constructor",
)

// SendChatMessageCommand appends a message to a conversation. The body is
// validated by chat.NewMessage.
type SendChatMessageCommand struct {
	conversationID kernel.UUID
	sender         chat.Participant
	body           string

	guard guard.ConstructorGuard
}

func NewSendChatMessageCommand(
	conversationID kernel.UUID,
	sender chat.Participant,
	body string,
) (SendChatMessageCommand, error) {
	if err := errors.Join(conversationID.Validate(), sender.ID.Validate()); err != nil {
		return SendChatMessageCommand{}, err
	}
	return SendChatMessageCommand{
		conversationID: conversationID,
		sender:         sender,
		body:           body,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c SendChatMessageCommand) Validate() error {
	return c.guard.Validate(ErrSendChatMessageCommandIsNotConstructed)
}

func (c SendChatMessageCommand) ConversationID() kernel.UUID { return c.conversationID }
func (c SendChatMessageCommand) Sender() chat.Participant    { return c.sender }
func (c SendChatMessageCommand) Body() string                { return c.body }
