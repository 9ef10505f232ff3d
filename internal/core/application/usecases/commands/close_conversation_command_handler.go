package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/chat"
)

type CloseConversationCommandHandler struct {
	uowFactory ChatUoWFactory
	now        func() time.Time
}

func NewCloseConversationCommandHandler(uowFactory ChatUoWFactory) CloseConversationCommandHandler {
	return CloseConversationCommandHandler{uowFactory: uowFactory, now: time.Now}
}

func (h CloseConversationCommandHandler) Handle(
	ctx context.Context,
	cmd CloseConversationCommand,
) (*chat.Conversation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ConversationRepository()

	c, err := repo.Get(ctx, cmd.ConversationID())
	if err != nil {
		return nil, err
	}

	by := cmd.By()
	if err = by.CanAccess(c); err != nil {
		return nil, err
	}

	c.Close(h.now())
	if err = repo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
