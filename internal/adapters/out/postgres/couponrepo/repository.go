// Package couponrepo keeps coupon usage bookkeeping.
package couponrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	UsedCount int       `gorm:"not null;default:0"`
}

func (CouponDTO) TableName() string {
	return "coupons"
}

// CouponUsageDTO is written at most once per order.
type CouponUsageDTO struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	CouponID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID      `gorm:"type:uuid"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_usage_order"`
	Discount  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (CouponUsageDTO) TableName() string {
	return "coupon_usage"
}

// GormCouponRepository implements ports.CouponRepository.
type GormCouponRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db, now: time.Now}
}

// RecordUsage inserts the usage row and, only if it was new, bumps the
// coupon's used_count. The counter is never decremented.
func (r *GormCouponRepository) RecordUsage(ctx context.Context, usage ports.CouponUsage) (bool, error) {
	if err := usage.CouponID.Validate(); err != nil {
		return false, errs.NewValueIsRequiredErrorWithCause("couponId", err)
	}
	if err := usage.OrderID.Validate(); err != nil {
		return false, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	row := CouponUsageDTO{
		CouponID:  usage.CouponID.Bytes(),
		OrderID:   usage.OrderID.Bytes(),
		Discount:  usage.Discount,
		CreatedAt: r.now().UTC(),
	}
	if usage.UserID != nil {
		userID := usage.UserID.Bytes()
		row.UserID = &userID
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	bump := r.db.WithContext(ctx).
		Model(&CouponDTO{}).
		Where("id = ?", row.CouponID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if bump.Error != nil {
		return false, bump.Error
	}
	if bump.RowsAffected == 0 {
		return false, errs.NewObjectNotFoundError("coupon", usage.CouponID.String())
	}
	return true, nil
}

// UsedCount reads the coupon counter.
func (r *GormCouponRepository) UsedCount(ctx context.Context, couponID kernel.UUID) (int, error) {
	var dto CouponDTO
	if err := r.db.WithContext(ctx).Where("id = ?", couponID.Bytes()).Take(&dto).Error; err != nil {
		return 0, err
	}
	return dto.UsedCount, nil
}
