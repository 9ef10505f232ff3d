package commands

import (
	"context"
)

type MarkMessagesReadCommandHandler struct {
	uowFactory ChatUoWFactory
}

func NewMarkMessagesReadCommandHandler(uowFactory ChatUoWFactory) MarkMessagesReadCommandHandler {
	return MarkMessagesReadCommandHandler{uowFactory: uowFactory}
}

// Handle returns how many messages changed to read.
func (h MarkMessagesReadCommandHandler) Handle(ctx context.Context, cmd MarkMessagesReadCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ConversationRepository()

	c, err := repo.Get(ctx, cmd.ConversationID())
	if err != nil {
		return 0, err
	}

	reader := cmd.Reader()
	if err = reader.CanAccess(c); err != nil {
		return 0, err
	}

	n, err := repo.MarkRead(ctx, c.ID(), reader.Type)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return n, nil
}
