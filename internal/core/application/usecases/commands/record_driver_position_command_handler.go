package commands

import (
	"context"
)

type RecordDriverPositionCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewRecordDriverPositionCommandHandler(uowFactory DriverUoWFactory) RecordDriverPositionCommandHandler {
	return RecordDriverPositionCommandHandler{uowFactory: uowFactory}
}

func (h RecordDriverPositionCommandHandler) Handle(ctx context.Context, cmd RecordDriverPositionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.DriverRepository().SavePosition(ctx, cmd.DriverID(), cmd.Position(), cmd.At()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
