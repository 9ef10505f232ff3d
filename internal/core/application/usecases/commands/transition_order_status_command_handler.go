package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/keylock"
)

// TransitionOrderStatusCommandHandler applies one status change under the
// order's row lock, together with its ledger effects and history row. The
// notification is sent after the commit and before the next transition of the
// same order can start, so subscribers see changes in commit order.
//
// Example:
//
//	handler := NewTransitionOrderStatusCommandHandler(uowFactory, notifier, locks)
//	cmd, _ := NewTransitionOrderStatusCommand(orderID, order.Cancelled, order.CustomerActor(userID))
//	_, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInvalidTransition) {
//	    // already delivered, cancelled or rejected
//	}
type TransitionOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.OrderNotifier
	locks      *keylock.Locker
	now        func() time.Time
}

func NewTransitionOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.OrderNotifier,
	locks *keylock.Locker,
) TransitionOrderStatusCommandHandler {
	return TransitionOrderStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		locks:      locks,
		now:        time.Now,
	}
}

// Handle returns the updated order, or errs.ErrObjectNotFound,
// errs.ErrUnauthorized or *errs.InvalidTransitionError without any change.
func (h TransitionOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderStatusCommand,
) (*order.Order, error) {
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

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Authorize(cmd.Actor(), cmd.Status()); err != nil {
		return nil, err
	}

	t, err := o.TransitionTo(cmd.Status(), h.now())
	if err != nil {
		return nil, err
	}

	if err = applyTransitionEffects(ctx, uow, o, t); err != nil {
		return nil, err
	}

	if err = orderRepo.AppendStatusChange(ctx, t, cmd.Actor()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.OrderTransitioned(ctx, o, t)
	return o, nil
}
