package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keylock"
)

// AssignDriverCommandHandler moves a ready order to assigned_to_delivery with
// the chosen driver. The driver must belong to the order's branch; it does not
// have to be online.
type AssignDriverCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   ports.OrderNotifier
	locks      *keylock.Locker
	now        func() time.Time
}

func NewAssignDriverCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.OrderNotifier,
	locks *keylock.Locker,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		locks:      locks,
		now:        time.Now,
	}
}

func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock := h.locks.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Authorize(cmd.Actor(), order.AssignedToDelivery); err != nil {
		return nil, err
	}

	d, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}
	if !d.BranchID().IsEqual(o.BranchID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"driverId",
			fmt.Errorf("driver %s does not work for branch %s", d.ID(), o.BranchID()),
		)
	}

	t, err := o.AssignDriver(d.ID(), h.now())
	if err != nil {
		return nil, err
	}

	if err = ordersRepo.AppendStatusChange(ctx, t, cmd.Actor()); err != nil {
		return nil, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.OrderTransitioned(ctx, o, t)
	return o, nil
}
