package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TrackOrderQueryHandler reads the tracking projection straight from the
// orders and order_items tables.
type TrackOrderQueryHandler struct {
	db *gorm.DB
}

func NewTrackOrderQueryHandler(db *gorm.DB) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{db: db}
}

// Handle returns the projection or an errs.ErrObjectNotFound error.
func (h TrackOrderQueryHandler) Handle(ctx context.Context, query TrackOrderQuery) (TrackOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return TrackOrderQueryResponse{}, err
	}

	var row struct {
		ID            uuid.UUID
		Code          string
		Status        string
		Total         decimal.Decimal
		PaymentMethod string
		Shipping      datatypes.JSONType[TrackedShipping]
		DriverID      *uuid.UUID
		CreatedAt     time.Time
		DeliveredAt   *time.Time
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			status,
			total,
			payment_method,
			shipping_details AS shipping,
			driver_id,
			created_at,
			delivered_at
		FROM orders
		WHERE code = ?
	`, query.Code().String()).Scan(&row)
	if result.Error != nil {
		return TrackOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return TrackOrderQueryResponse{}, errs.NewObjectNotFoundError("orderCode", query.Code().String())
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}

	items, err := h.items(ctx, row.ID)
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}

	return TrackOrderQueryResponse{
		ID:            id,
		Code:          row.Code,
		Status:        row.Status,
		Total:         row.Total,
		PaymentMethod: row.PaymentMethod,
		Shipping:      row.Shipping.Data(),
		Items:         items,
		HasDriver:     row.DriverID != nil,
		CreatedAt:     row.CreatedAt.UTC(),
		DeliveredAt:   row.DeliveredAt,
	}, nil
}

func (h TrackOrderQueryHandler) items(ctx context.Context, orderID uuid.UUID) ([]TrackedItem, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TrackedItem, 0)
	for rows.Next() {
		var (
			productID uuid.UUID
			item      TrackedItem
		)
		if err = rows.Scan(&productID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
