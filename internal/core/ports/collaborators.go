package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// CouponUsage is the bookkeeping record written after an order with a coupon commits.
type CouponUsage struct {
	CouponID kernel.UUID
	UserID   *kernel.UUID
	OrderID  kernel.UUID
	Discount decimal.Decimal
}

// CouponRepository records coupon usage at most once per order.
type CouponRepository interface {
	// RecordUsage inserts the usage row and bumps the coupon's used_count
	// only when the row did not exist yet. It reports whether it inserted.
	RecordUsage(ctx context.Context, usage CouponUsage) (bool, error)
}

// CartRepository clears a customer's cart once the order is placed.
type CartRepository interface {
	Clear(ctx context.Context, userID kernel.UUID) error
}

// HotDealRepository keeps the sold counter of promotional deals.
type HotDealRepository interface {
	IncrementSold(ctx context.Context, dealID kernel.UUID) (int64, error)
}
