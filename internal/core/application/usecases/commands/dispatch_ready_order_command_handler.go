package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keylock"
)

var (
	ErrNoFreeDriversFound = errors.New("no free drivers found")
	ErrNoOrderFound       = errors.New("no order found")
)

// DispatchReadyOrderCommandHandler is the stub matcher run by the dispatch job.
// It locks the oldest ready order nobody else holds, picks a free driver of the
// same branch and assigns it.
//
// Example:
//
//	handler := NewDispatchReadyOrderCommandHandler(uowFactory, notifier, locks)
//	err := handler.Handle(ctx, NewDispatchReadyOrderCommand())
//	switch {
//	case errors.Is(err, ErrNoOrderFound):
//	    log.Println("No ready orders")
//	case errors.Is(err, ErrNoFreeDriversFound):
//	    log.Println("All drivers are busy")
//	}
type DispatchReadyOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   ports.OrderNotifier
	locks      *keylock.Locker
	dispatcher services.DriverDispatcher
	now        func() time.Time
}

func NewDispatchReadyOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.OrderNotifier,
	locks *keylock.Locker,
) DispatchReadyOrderCommandHandler {
	return DispatchReadyOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		locks:      locks,
		dispatcher: services.NewDriverDispatcher(),
		now:        time.Now,
	}
}

func (h DispatchReadyOrderCommandHandler) Handle(ctx context.Context, command DispatchReadyOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	driverRepo := uow.DriverRepository()

	o, err := ordersRepo.GetFirstReady(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	// The row lock is already held, so waiting on the order's key here could
	// deadlock with a transition that holds the key and waits for the row.
	unlock, ok := h.locks.TryLock(o.ID().String())
	if !ok {
		return ErrNoOrderFound
	}
	defer unlock()

	drivers, err := driverRepo.GetAllFree(ctx, o.BranchID())
	if err != nil {
		return err
	}
	if len(drivers) == 0 {
		return ErrNoFreeDriversFound
	}

	_, t, err := h.dispatcher.Dispatch(o, drivers, h.now())
	if errors.Is(err, services.ErrDriverNotFound) {
		return ErrNoFreeDriversFound
	}
	if err != nil {
		return err
	}

	if err = ordersRepo.AppendStatusChange(ctx, t, order.SystemActor()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.OrderTransitioned(ctx, o, t)
	return nil
}
