// Package commands contains business operations that modify system state.
// Every handler validates its command, opens one unit of work, commits it, and
// only then runs best-effort side effects such as notifications.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces narrow ports.UnitOfWork to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// LedgerFactory provides the counters an order reserves, deducts and releases.
	LedgerFactory interface {
		InventoryLedger() ports.InventoryLedger
		CapacityLedger() ports.CapacityLedger
		LoyaltyLedger() ports.LoyaltyLedger
	}

	CartRepoFactory interface {
		CartRepository() ports.CartRepository
	}

	CouponRepoFactory interface {
		CouponRepository() ports.CouponRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	ConversationRepoFactory interface {
		ConversationRepository() ports.ConversationRepository
	}

	HotDealRepoFactory interface {
		HotDealRepository() ports.HotDealRepository
	}

	// OrderUoW wraps an order row and every ledger row it touches in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.InventoryLedger().Reserve(ctx, branchID, productID, 2)
	//   err = uow.OrderRepository().Add(ctx, o)
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		LedgerFactory
		CartRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CouponUoW runs coupon bookkeeping after the order committed.
	CouponUoW interface {
		TxManager
		CouponRepoFactory
	}

	CouponUoWFactory interface {
		Create() CouponUoW
	}

	// DispatchUoW coordinates an order and the drivers that may take it.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
	}

	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	ChatUoW interface {
		TxManager
		ConversationRepoFactory
	}

	ChatUoWFactory interface {
		Create() ChatUoW
	}

	HotDealUoW interface {
		TxManager
		HotDealRepoFactory
	}

	HotDealUoWFactory interface {
		Create() HotDealUoW
	}
)
