package services

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/order"
)

// ErrDriverNotFound is returned when no candidate can take the order.
var ErrDriverNotFound = errors.New("driver not found")

// DriverDispatcher assigns ready orders to drivers.
type DriverDispatcher struct{}

func NewDriverDispatcher() DriverDispatcher {
	return DriverDispatcher{}
}

// Dispatch picks a driver for o among candidates and moves the order to
// assigned_to_delivery. Candidates must be available and belong to the order's
// branch; among them the one with the freshest position snapshot wins, which
// favours drivers that are actually online.
func (DriverDispatcher) Dispatch(o *order.Order, candidates []*driver.Driver, at time.Time) (*driver.Driver, order.Transition, error) {
	if err := o.Validate(); err != nil {
		return nil, order.Transition{}, err
	}
	if !o.Status().CanTransitionTo(order.AssignedToDelivery) {
		_, err := o.Status().TransitionTo(order.AssignedToDelivery)
		return nil, order.Transition{}, err
	}

	var best *driver.Driver
	for _, d := range candidates {
		if err := d.Validate(); err != nil {
			return nil, order.Transition{}, err
		}
		if !d.IsAvailable() || !d.BranchID().IsEqual(o.BranchID()) {
			continue
		}
		if best == nil || fresher(d, best) {
			best = d
		}
	}

	if best == nil {
		return nil, order.Transition{}, ErrDriverNotFound
	}

	t, err := o.AssignDriver(best.ID(), at)
	if err != nil {
		return nil, order.Transition{}, err
	}
	return best, t, nil
}

func fresher(a, b *driver.Driver) bool {
	switch {
	case a.PositionAt() == nil:
		return false
	case b.PositionAt() == nil:
		return true
	default:
		return a.PositionAt().After(*b.PositionAt())
	}
}
