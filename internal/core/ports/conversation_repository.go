package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
)

// ConversationRepository persists support conversations and their messages.
type ConversationRepository interface {
	Add(ctx context.Context, c *chat.Conversation) error
	Update(ctx context.Context, c *chat.Conversation) error
	Get(ctx context.Context, id kernel.UUID) (*chat.Conversation, error)

	// GetActiveByCustomer returns the customer's open conversation or an
	// errs.ErrObjectNotFound error.
	GetActiveByCustomer(ctx context.Context, customerID kernel.UUID) (*chat.Conversation, error)

	AddMessage(ctx context.Context, m chat.Message) error

	// MarkRead flags as read every message of the conversation not written by
	// readerType and returns how many changed.
	MarkRead(ctx context.Context, conversationID kernel.UUID, readerType chat.SenderType) (int64, error)

	// ListMessages returns up to limit messages in send order, starting after
	// the first offset ones.
	ListMessages(ctx context.Context, conversationID kernel.UUID, limit, offset int) ([]chat.Message, error)
}
