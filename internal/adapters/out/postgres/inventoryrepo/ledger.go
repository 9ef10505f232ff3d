package inventoryrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryLedger implements ports.InventoryLedger. It must run on a
// transaction handle; the row lock taken by each call is held until that
// transaction ends, so a competing reservation waits and then re-reads the
// counters.
type GormInventoryLedger struct {
	db     *gorm.DB
	policy inventory.MissingRowPolicy
}

func NewGormInventoryLedger(db *gorm.DB, policy inventory.MissingRowPolicy) *GormInventoryLedger {
	return &GormInventoryLedger{
		db:     db,
		policy: policy,
	}
}

// Reserve holds qty units. A product the branch does not track is governed by
// the ledger's MissingRowPolicy.
func (l *GormInventoryLedger) Reserve(ctx context.Context, branchID, productID kernel.UUID, qty int) error {
	record, err := l.lock(ctx, branchID, productID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		if l.policy == inventory.RejectMissing {
			return errs.NewInsufficientStockError(productID.String(), qty, 0)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if err = record.Reserve(qty); err != nil {
		return err
	}
	return l.save(ctx, record)
}

func (l *GormInventoryLedger) Deduct(ctx context.Context, branchID, productID kernel.UUID, qty int) error {
	return l.mutate(ctx, branchID, productID, func(r *inventory.StockRecord) error {
		return r.Deduct(qty)
	})
}

func (l *GormInventoryLedger) Release(ctx context.Context, branchID, productID kernel.UUID, qty int) error {
	return l.mutate(ctx, branchID, productID, func(r *inventory.StockRecord) error {
		return r.Release(qty)
	})
}

// Get reads the counters without locking.
func (l *GormInventoryLedger) Get(ctx context.Context, branchID, productID kernel.UUID) (*inventory.StockRecord, error) {
	var dto BranchProductDTO
	err := l.db.WithContext(ctx).
		Where("branch_id = ? AND product_id = ?", branchID.Bytes(), productID.Bytes()).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("branchProduct", productID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// Put creates or overwrites the counters of a (branch, product) pair.
func (l *GormInventoryLedger) Put(ctx context.Context, record *inventory.StockRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	dto := fromDomain(record)
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stock_quantity", "reserved_quantity"}),
		}).
		Create(&dto).Error
}

// mutate applies fn to a locked record. Untracked products have nothing to
// deduct or release.
func (l *GormInventoryLedger) mutate(
	ctx context.Context,
	branchID, productID kernel.UUID,
	fn func(*inventory.StockRecord) error,
) error {
	record, err := l.lock(ctx, branchID, productID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = fn(record); err != nil {
		return err
	}
	return l.save(ctx, record)
}

func (l *GormInventoryLedger) lock(ctx context.Context, branchID, productID kernel.UUID) (*inventory.StockRecord, error) {
	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return nil, err
	}

	var dto BranchProductDTO
	err := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("branch_id = ? AND product_id = ?", branchID.Bytes(), productID.Bytes()).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("branchProduct", productID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (l *GormInventoryLedger) save(ctx context.Context, record *inventory.StockRecord) error {
	dto := fromDomain(record)
	return l.db.WithContext(ctx).
		Model(&BranchProductDTO{}).
		Where("branch_id = ? AND product_id = ?", dto.BranchID, dto.ProductID).
		Updates(map[string]any{
			"stock_quantity":    dto.StockQuantity,
			"reserved_quantity": dto.ReservedQuantity,
		}).Error
}
