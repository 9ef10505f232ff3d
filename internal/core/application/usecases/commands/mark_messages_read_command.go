package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkMessagesReadCommandIsNotConstructed = errors.New(
	"MarkMessagesReadCommand must be created via NewMarkMessagesReadCommand constructor",
)

// MarkMessagesReadCommand flags the other side's messages as read by reader.
type MarkMessagesReadCommand struct {
	conversationID kernel.UUID
	reader         chat.Participant

	guard guard.ConstructorGuard
}

func NewMarkMessagesReadCommand(conversationID kernel.UUID, reader chat.Participant) (MarkMessagesReadCommand, error) {
	if err := errors.Join(conversationID.Validate(), reader.ID.Validate()); err != nil {
		return MarkMessagesReadCommand{}, err
	}
	return MarkMessagesReadCommand{
		conversationID: conversationID,
		reader:         reader,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c MarkMessagesReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkMessagesReadCommandIsNotConstructed)
}

func (c MarkMessagesReadCommand) ConversationID() kernel.UUID { return c.conversationID }
func (c MarkMessagesReadCommand) Reader() chat.Participant    { return c.reader }
