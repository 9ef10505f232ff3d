package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
)

type conversationReader interface {
	Get(ctx context.Context, id kernel.UUID) (*chat.Conversation, error)
	ListMessages(ctx context.Context, conversationID kernel.UUID, limit, offset int) ([]chat.Message, error)
}

type ConversationMessagesQueryHandler struct {
	conversations conversationReader
}

func NewConversationMessagesQueryHandler(conversations conversationReader) ConversationMessagesQueryHandler {
	return ConversationMessagesQueryHandler{conversations: conversations}
}

// Handle returns the messages in send order. A customer asking for another
// customer's conversation gets an errs.ErrUnauthorized error.
func (h ConversationMessagesQueryHandler) Handle(
	ctx context.Context,
	query ConversationMessagesQuery,
) ([]chat.Message, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	conversation, err := h.conversations.Get(ctx, query.ConversationID())
	if err != nil {
		return nil, err
	}
	if err = query.Viewer().CanAccess(conversation); err != nil {
		return nil, err
	}

	return h.conversations.ListMessages(ctx, conversation.ID(), query.Limit(), query.Offset())
}
