package commands

import (
	"cmp"
	"context"
	"slices"

	"fulfillment/internal/core/domain/model/order"
)

// applyTransitionEffects performs the ledger work a transition asks for,
// inside the caller's transaction.
func applyTransitionEffects(ctx context.Context, ledgers LedgerFactory, o *order.Order, t order.Transition) error {
	items := o.Items()
	slices.SortStableFunc(items, func(a, b order.Item) int {
		return cmp.Compare(a.ProductID().String(), b.ProductID().String())
	})

	if t.DeductStock {
		inventory := ledgers.InventoryLedger()
		for _, item := range items {
			if err := inventory.Deduct(ctx, o.BranchID(), item.ProductID(), item.Quantity()); err != nil {
				return err
			}
		}
	}

	if t.ReleaseReservation {
		inventory := ledgers.InventoryLedger()
		for _, item := range items {
			if err := inventory.Release(ctx, o.BranchID(), item.ProductID(), item.Quantity()); err != nil {
				return err
			}
		}
	}

	if t.ReleaseSlot && o.SlotID() != nil {
		if err := ledgers.CapacityLedger().ReleaseSlot(ctx, *o.SlotID()); err != nil {
			return err
		}
	}

	if t.LoyaltyPoints > 0 && o.UserID() != nil {
		if err := ledgers.LoyaltyLedger().Award(ctx, *o.UserID(), t.LoyaltyPoints); err != nil {
			return err
		}
	}

	return nil
}
