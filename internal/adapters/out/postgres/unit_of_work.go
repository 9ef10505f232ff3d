// Package postgres provides the GORM-based Unit of Work that wraps an order and
// every ledger row it touches in a single transaction.
//
// Repositories and ledgers obtained from a unit after Begin share its
// transaction, so row locks taken by InventoryLedger().Reserve or
// OrderRepository().GetForUpdate are held until Commit or Rollback.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, inventory.AllowUnconstrained)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.InventoryLedger().Reserve(ctx, branchID, productID, 2); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency:
//   - each UnitOfWork instance owns one transaction; never share it between goroutines
//   - ledger rows are locked in the order callers touch them, so callers lock
//     products in a stable order
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/cartrepo"
	"fulfillment/internal/adapters/out/postgres/chatrepo"
	"fulfillment/internal/adapters/out/postgres/couponrepo"
	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/hotdealrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/loyaltyrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/slotrepo"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate added or updated during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances on one connection pool.
type GormUnitOfWorkFactory struct {
	db     *gorm.DB
	policy inventory.MissingRowPolicy
}

// NewGormUnitOfWorkFactory creates a factory. policy decides how inventory
// reservations treat products a branch does not track.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, inventory.RejectMissing)
func NewGormUnitOfWorkFactory(db *gorm.DB, policy inventory.MissingRowPolicy) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, policy: policy}
}

// Create produces a fresh unit with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create without the interface conversion, for callers that
// need TrackedAggregates.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		policy:            f.policy,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	policy            inventory.MissingRowPolicy
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit makes every change permanent and releases the row locks.
// It returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Handlers defer it unconditionally, so
// after a successful Commit it returns gorm.ErrInvalidTransaction and changes nothing.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) InventoryLedger() ports.InventoryLedger {
	return inventoryrepo.NewGormInventoryLedger(uow.conn(), uow.policy)
}

func (uow *GormUnitOfWork) CapacityLedger() ports.CapacityLedger {
	return slotrepo.NewGormCapacityLedger(uow.conn())
}

func (uow *GormUnitOfWork) LoyaltyLedger() ports.LoyaltyLedger {
	return loyaltyrepo.NewGormLoyaltyLedger(uow.conn())
}

func (uow *GormUnitOfWork) CouponRepository() ports.CouponRepository {
	return couponrepo.NewGormCouponRepository(uow.conn())
}

func (uow *GormUnitOfWork) CartRepository() ports.CartRepository {
	return cartrepo.NewGormCartRepository(uow.conn())
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ConversationRepository() ports.ConversationRepository {
	return chatrepo.NewGormConversationRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) HotDealRepository() ports.HotDealRepository {
	return hotdealrepo.NewGormHotDealRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after a successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns the ids written so far, in write order.
func (uow *GormUnitOfWork) TrackedAggregates() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		ids = append(ids, tracked.ID)
	}
	return ids
}

// conn is the open transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
