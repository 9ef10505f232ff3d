package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/chat"
)

type AssignConversationCommandHandler struct {
	uowFactory ChatUoWFactory
	now        func() time.Time
}

func NewAssignConversationCommandHandler(uowFactory ChatUoWFactory) AssignConversationCommandHandler {
	return AssignConversationCommandHandler{uowFactory: uowFactory, now: time.Now}
}

func (h AssignConversationCommandHandler) Handle(
	ctx context.Context,
	cmd AssignConversationCommand,
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

	if err = c.AssignAgent(cmd.AgentID(), h.now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
