package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
)

// SendChatMessageCommandHandler persists a message. Callers broadcast it only
// after Handle returns, so history always contains what was seen live.
type SendChatMessageCommandHandler struct {
	uowFactory ChatUoWFactory
	now        func() time.Time
}

func NewSendChatMessageCommandHandler(uowFactory ChatUoWFactory) SendChatMessageCommandHandler {
	return SendChatMessageCommandHandler{uowFactory: uowFactory, now: time.Now}
}

func (h SendChatMessageCommandHandler) Handle(ctx context.Context, cmd SendChatMessageCommand) (chat.Message, error) {
	if err := cmd.Validate(); err != nil {
		return chat.Message{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return chat.Message{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ConversationRepository()

	c, err := repo.Get(ctx, cmd.ConversationID())
	if err != nil {
		return chat.Message{}, err
	}

	sender := cmd.Sender()
	if err = sender.CanAccess(c); err != nil {
		return chat.Message{}, err
	}

	at := h.now()
	msg, err := chat.NewMessage(kernel.NewUUID(), c, sender.ID, sender.Type, cmd.Body(), at)
	if err != nil {
		return chat.Message{}, err
	}

	if err = repo.AddMessage(ctx, msg); err != nil {
		return chat.Message{}, err
	}

	c.Touch(at)
	if err = repo.Update(ctx, c); err != nil {
		return chat.Message{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return chat.Message{}, err
	}

	return msg, nil
}
