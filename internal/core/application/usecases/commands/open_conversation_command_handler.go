package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

type OpenConversationCommandHandler struct {
	uowFactory ChatUoWFactory
	now        func() time.Time
}

func NewOpenConversationCommandHandler(uowFactory ChatUoWFactory) OpenConversationCommandHandler {
	return OpenConversationCommandHandler{uowFactory: uowFactory, now: time.Now}
}

// Handle reports whether the conversation was created by this call.
func (h OpenConversationCommandHandler) Handle(
	ctx context.Context,
	cmd OpenConversationCommand,
) (*chat.Conversation, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ConversationRepository()

	existing, err := repo.GetActiveByCustomer(ctx, cmd.CustomerID())
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	c, err := chat.NewConversation(kernel.NewUUID(), cmd.CustomerID(), h.now())
	if err != nil {
		return nil, false, err
	}

	if err = repo.Add(ctx, c); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return c, true, nil
}
