package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Transition describes a committed-to-be status change and the work it implies.
type Transition struct {
	OrderID  kernel.UUID
	From     Status
	To       Status
	At       time.Time
	Version  int
	DriverID *kernel.UUID

	// DeductStock converts the reservation of every item into a stock deduction.
	DeductStock bool
	// ReleaseReservation returns every item's reserved quantity.
	ReleaseReservation bool
	// ReleaseSlot frees the delivery slot held by the order.
	ReleaseSlot bool
	// LoyaltyPoints to award to the owner; zero means none.
	LoyaltyPoints int64
}
