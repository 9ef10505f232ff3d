package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// InventoryLedger mutates branch stock counters. Every operation locks the
// (branch, product) row for the rest of the caller's transaction and never
// opens a transaction of its own.
type InventoryLedger interface {
	// Reserve fails with *errs.InsufficientStockError when stock - reserved < qty.
	Reserve(ctx context.Context, branchID, productID kernel.UUID, qty int) error

	// Deduct lowers stock and reserved by qty, flooring both at 0.
	Deduct(ctx context.Context, branchID, productID kernel.UUID, qty int) error

	// Release lowers reserved by qty, flooring at 0.
	Release(ctx context.Context, branchID, productID kernel.UUID, qty int) error
}

// CapacityLedger mutates delivery slot counters under a row lock.
type CapacityLedger interface {
	// ReserveSlot fails with *errs.SlotFullError when current >= max.
	ReserveSlot(ctx context.Context, slotID kernel.UUID) error

	// ReleaseSlot decrements current, flooring at 0.
	ReleaseSlot(ctx context.Context, slotID kernel.UUID) error
}

// LoyaltyLedger credits customers.
type LoyaltyLedger interface {
	Award(ctx context.Context, userID kernel.UUID, points int64) error
}
