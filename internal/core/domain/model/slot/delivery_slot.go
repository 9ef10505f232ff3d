// Package slot models delivery capacity windows.
package slot

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrDeliverySlotIsNotConstructed = errors.New("DeliverySlot must be created via NewDeliverySlot constructor")

// DeliverySlot caps how many orders a branch accepts for one delivery window.
//
// Invariant: 0 <= currentOrders <= maxOrders.
type DeliverySlot struct {
	id            kernel.UUID
	branchID      kernel.UUID
	startsAt      time.Time
	endsAt        time.Time
	maxOrders     int
	currentOrders int

	isConstructed bool
}

func NewDeliverySlot(
	id, branchID kernel.UUID,
	startsAt, endsAt time.Time,
	maxOrders, currentOrders int,
) (*DeliverySlot, error) {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := branchID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if !endsAt.After(startsAt) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"endsAt", fmt.Errorf("%s is not after %s", endsAt, startsAt)))
	}
	if maxOrders < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"maxOrders", fmt.Errorf("%d is negative", maxOrders)))
	}
	if currentOrders < 0 || currentOrders > max(maxOrders, 0) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("currentOrders", currentOrders, 0, maxOrders))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &DeliverySlot{
		id:            id,
		branchID:      branchID,
		startsAt:      startsAt,
		endsAt:        endsAt,
		maxOrders:     maxOrders,
		currentOrders: currentOrders,
		isConstructed: true,
	}, nil
}

func (s *DeliverySlot) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrDeliverySlotIsNotConstructed
	}
	return nil
}

func (s *DeliverySlot) ID() kernel.UUID       { return s.id }
func (s *DeliverySlot) BranchID() kernel.UUID { return s.branchID }
func (s *DeliverySlot) StartsAt() time.Time   { return s.startsAt }
func (s *DeliverySlot) EndsAt() time.Time     { return s.endsAt }
func (s *DeliverySlot) MaxOrders() int        { return s.maxOrders }
func (s *DeliverySlot) CurrentOrders() int    { return s.currentOrders }

func (s *DeliverySlot) IsFull() bool {
	return s.currentOrders >= s.maxOrders
}

// Reserve takes one place or fails with SlotFullError.
func (s *DeliverySlot) Reserve() error {
	if s.IsFull() {
		return errs.NewSlotFullError(s.id.String())
	}
	s.currentOrders++
	return nil
}

// Release gives one place back, flooring at 0.
func (s *DeliverySlot) Release() {
	s.currentOrders = max(0, s.currentOrders-1)
}
