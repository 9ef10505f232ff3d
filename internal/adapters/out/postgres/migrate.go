package postgres

import (
	"fulfillment/internal/adapters/out/postgres/cartrepo"
	"fulfillment/internal/adapters/out/postgres/chatrepo"
	"fulfillment/internal/adapters/out/postgres/couponrepo"
	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/hotdealrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/loyaltyrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/slotrepo"

	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.StatusHistoryDTO{},
		&inventoryrepo.BranchProductDTO{},
		&slotrepo.DeliverySlotDTO{},
		&couponrepo.CouponDTO{},
		&couponrepo.CouponUsageDTO{},
		&loyaltyrepo.LoyaltyAccountDTO{},
		&cartrepo.CartItemDTO{},
		&driverrepo.DriverDTO{},
		&chatrepo.ConversationDTO{},
		&chatrepo.MessageDTO{},
		&hotdealrepo.HotDealDTO{},
	}
}

// Tables lists the table names of Models, for truncation in tests.
func Tables() []string {
	return []string{
		"order_status_history", "order_items", "orders",
		"branch_products", "delivery_slots",
		"coupon_usage", "coupons", "loyalty_accounts", "cart_items",
		"delivery_staff", "messages", "conversations", "hot_deals",
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
