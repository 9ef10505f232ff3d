package commands

import (
	"context"
)

type SetDriverAvailabilityCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewSetDriverAvailabilityCommandHandler(uowFactory DriverUoWFactory) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{uowFactory: uowFactory}
}

// Handle fails with errs.ErrObjectNotFound for an unknown driver.
func (h SetDriverAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetDriverAvailabilityCommand) error {
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

	if err := uow.DriverRepository().SetAvailability(ctx, cmd.DriverID(), cmd.Available()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
