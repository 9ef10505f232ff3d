package commands

import (
	"context"
)

type RecordHotDealSaleCommandHandler struct {
	uowFactory HotDealUoWFactory
}

func NewRecordHotDealSaleCommandHandler(uowFactory HotDealUoWFactory) RecordHotDealSaleCommandHandler {
	return RecordHotDealSaleCommandHandler{uowFactory: uowFactory}
}

// Handle returns the new sold count, or errs.ErrObjectNotFound for an unknown deal.
func (h RecordHotDealSaleCommandHandler) Handle(ctx context.Context, cmd RecordHotDealSaleCommand) (int64, error) {
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

	sold, err := uow.HotDealRepository().IncrementSold(ctx, cmd.DealID())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return sold, nil
}
