package order

import (
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ActorKind classifies who requests a transition.
type ActorKind int

const (
	ActorSystem ActorKind = iota
	ActorStaff
	ActorDriver
	ActorCustomer
)

// Actor is the identity a transition is attributed to.
type Actor struct {
	ID   *kernel.UUID
	Kind ActorKind
}

func SystemActor() Actor {
	return Actor{Kind: ActorSystem}
}

func StaffActor(id kernel.UUID) Actor {
	return Actor{ID: &id, Kind: ActorStaff}
}

func DriverActor(id kernel.UUID) Actor {
	return Actor{ID: &id, Kind: ActorDriver}
}

func CustomerActor(id kernel.UUID) Actor {
	return Actor{ID: &id, Kind: ActorCustomer}
}

func driverStatuses() []Status {
	return []Status{Accepted, PickedUp, Arriving, Delivered, Rejected}
}

// Authorize checks that actor may move the order to next. It does not check
// adjacency; TransitionTo does.
//
//   - system and staff may apply any transition
//   - the assigned driver may walk the delivery leg or reject the assignment
//   - the owner may cancel while the order is still pending
func (o *Order) Authorize(actor Actor, next Status) error {
	switch actor.Kind {
	case ActorSystem, ActorStaff:
		return nil
	case ActorDriver:
		if actor.ID == nil || o.driverID == nil || !o.driverID.IsEqual(*actor.ID) {
			return fmt.Errorf("%w: order %s is not assigned to this driver", errs.ErrUnauthorized, o.code)
		}
		if !slices.Contains(driverStatuses(), next) {
			return fmt.Errorf("%w: drivers cannot set %s", errs.ErrUnauthorized, next)
		}
		return nil
	case ActorCustomer:
		owner := o.checkout.UserID
		if actor.ID == nil || owner == nil || !owner.IsEqual(*actor.ID) {
			return fmt.Errorf("%w: order %s belongs to another customer", errs.ErrUnauthorized, o.code)
		}
		if next != Cancelled || o.status != Pending {
			return fmt.Errorf("%w: customers can only cancel pending orders", errs.ErrUnauthorized)
		}
		return nil
	default:
		return errs.ErrUnauthorized
	}
}
