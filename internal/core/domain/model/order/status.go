package order

import (
	"fmt"
	"slices"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	Ready
	AssignedToDelivery
	Accepted
	PickedUp
	Arriving
	Delivered
	Cancelled
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "unknown",
		Pending:            "pending",
		Confirmed:          "confirmed",
		Preparing:          "preparing",
		Ready:              "ready",
		AssignedToDelivery: "assigned_to_delivery",
		Accepted:           "accepted",
		PickedUp:           "picked_up",
		Arriving:           "arriving",
		Delivered:          "delivered",
		Cancelled:          "cancelled",
		Rejected:           "rejected",
	}
}

// getTransitions is the adjacency table of the state machine. Terminal
// statuses have no entry.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal statuses have no outgoing edges
	return map[Status][]Status{
		Pending:            {Confirmed, Cancelled, Rejected},
		Confirmed:          {Preparing, Cancelled, Rejected},
		Preparing:          {Ready, Cancelled, Rejected},
		Ready:              {AssignedToDelivery, Cancelled, Rejected},
		AssignedToDelivery: {Accepted, Cancelled, Rejected},
		Accepted:           {PickedUp, Cancelled, Rejected},
		PickedUp:           {Arriving, Cancelled, Rejected},
		Arriving:           {Delivered, Cancelled, Rejected},
	}
}

// ParseStatus converts the wire/database name of a status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{
		Pending, Confirmed, Preparing, Ready, AssignedToDelivery,
		Accepted, PickedUp, Arriving, Delivered, Cancelled, Rejected,
	}
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Rejected
}

// IsFailure reports whether s ends the order without delivery.
func (s Status) IsFailure() bool {
	return s == Cancelled || s == Rejected
}

// IsOutForDelivery reports whether an assigned driver is on the road in s.
func (s Status) IsOutForDelivery() bool {
	return slices.Contains(OutForDelivery(), s)
}

// OutForDelivery lists the statuses between assignment and delivery.
func OutForDelivery() []Status {
	return []Status{AssignedToDelivery, Accepted, PickedUp, Arriving}
}

// Next lists the statuses reachable from s in one step.
func (s Status) Next() []Status {
	return slices.Clone(getTransitions()[s])
}

// CanTransitionTo reports whether next is adjacent to s.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(getTransitions()[s], next)
}

// TransitionTo returns next, or an InvalidTransitionError when the edge is not
// in the adjacency table.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidTransitionError(s.String(), next.String())
	}
	return next, nil
}

// ValidateCanHaveDriver keeps driver assignment consistent with the status.
// From assigned_to_delivery through delivered a driver is required; before that
// none may be set. Failure statuses accept either.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	switch s { //nolint:exhaustive // remaining statuses accept either
	case Pending, Confirmed, Preparing, Ready:
		if hasDriver {
			return errs.NewValueIsInvalidErrorWithCause(
				"status",
				fmt.Errorf("%s is not a valid status to have a driver", s),
			)
		}
	case AssignedToDelivery, Accepted, PickedUp, Arriving, Delivered:
		if !hasDriver {
			return errs.NewValueIsInvalidErrorWithCause(
				"status",
				fmt.Errorf("%s is not a valid status to have no driver", s),
			)
		}
	}
	return nil
}
