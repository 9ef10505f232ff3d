package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns one page ordered by creation time, newest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stmt := h.db.WithContext(ctx).
		Table("orders").
		Select("id, code, user_id, branch_id, status, total, driver_id, slot_id, created_at, delivered_at")
	if userID := query.UserID(); userID != nil {
		stmt = stmt.Where("user_id = ?", userID.Bytes())
	}
	if status := query.Status(); status != nil {
		stmt = stmt.Where("status = ?", status.String())
	}

	rows, err := stmt.
		Order("created_at DESC, id").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]ListOrdersQueryResponse, 0, query.Limit())
	for rows.Next() {
		var (
			id, branchID             uuid.UUID
			userID, driverID, slotID *uuid.UUID
			resp                     ListOrdersQueryResponse
			total                    decimal.Decimal
			createdAt                time.Time
		)
		if err = rows.Scan(
			&id,
			&resp.Code,
			&userID,
			&branchID,
			&resp.Status,
			&total,
			&driverID,
			&slotID,
			&createdAt,
			&resp.DeliveredAt,
		); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.BranchID, err = kernel.UUIDFromBytes(branchID[:]); err != nil {
			return nil, err
		}
		if resp.UserID, err = kernel.FromBytesPtr(userID); err != nil {
			return nil, err
		}
		if resp.DriverID, err = kernel.FromBytesPtr(driverID); err != nil {
			return nil, err
		}
		if resp.SlotID, err = kernel.FromBytesPtr(slotID); err != nil {
			return nil, err
		}
		resp.Total = total
		resp.CreatedAt = createdAt.UTC()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
