package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the single commit/rollback boundary around an order and the
// ledger rows it touches. Repositories obtained after Begin share its transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	InventoryLedger() InventoryLedger
	CapacityLedger() CapacityLedger
	LoyaltyLedger() LoyaltyLedger
	CouponRepository() CouponRepository
	CartRepository() CartRepository
	DriverRepository() DriverRepository
	ConversationRepository() ConversationRepository
	HotDealRepository() HotDealRepository
}
