package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type DriverDeliveryQueryHandler struct {
	db *gorm.DB
}

func NewDriverDeliveryQueryHandler(db *gorm.DB) DriverDeliveryQueryHandler {
	return DriverDeliveryQueryHandler{db: db}
}

// Handle reports whether the order is assigned to the driver and not yet
// delivered or abandoned.
func (h DriverDeliveryQueryHandler) Handle(ctx context.Context, query DriverDeliveryQuery) (bool, error) {
	if err := query.Validate(); err != nil {
		return false, err
	}

	statuses := make([]string, 0, len(order.OutForDelivery()))
	for _, s := range order.OutForDelivery() {
		statuses = append(statuses, s.String())
	}

	var count int64
	err := h.db.WithContext(ctx).
		Table("orders").
		Where("id = ? AND driver_id = ? AND status IN ?", query.OrderID().Bytes(), query.DriverID().Bytes(), statuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
