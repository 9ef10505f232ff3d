// Package orderrepo persists the order aggregate: the orders row, its line
// item snapshot and the append-only status history.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// codeIndexName names the unique index behind order code collisions.
const codeIndexName = "idx_orders_code"

// OrderDTO is the orders row. Shipping details are stored as a jsonb snapshot.
type OrderDTO struct {
	ID             uuid.UUID                         `gorm:"type:uuid;primaryKey"`
	Code           string                            `gorm:"type:varchar(10);not null;uniqueIndex:idx_orders_code"`
	UserID         *uuid.UUID                        `gorm:"type:uuid;index"`
	BranchID       uuid.UUID                         `gorm:"type:uuid;not null;index:idx_orders_branch_status"`
	Total          decimal.Decimal                   `gorm:"type:numeric(12,2);not null"`
	PaymentMethod  string                            `gorm:"type:varchar(32);not null"`
	Shipping       datatypes.JSONType[ShippingDTO]   `gorm:"column:shipping_details;not null"`
	SlotID         *uuid.UUID                        `gorm:"type:uuid"`
	CouponID       *uuid.UUID                        `gorm:"type:uuid"`
	CouponDiscount decimal.Decimal                   `gorm:"type:numeric(12,2);not null;default:0"`
	Status         string                            `gorm:"type:varchar(32);not null;index:idx_orders_branch_status;index:idx_orders_status_created,priority:1"`
	DriverID       *uuid.UUID                        `gorm:"type:uuid;index"`
	CreatedAt      time.Time                         `gorm:"not null;index:idx_orders_status_created,priority:2"`
	DeliveredAt    *time.Time
	Version        int                               `gorm:"not null;default:1"`
	Items          []OrderItemDTO                    `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ShippingDTO is the json shape of the shipping snapshot.
type ShippingDTO struct {
	RecipientName string `json:"recipientName,omitempty"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// OrderItemDTO is one line of the immutable item snapshot.
type OrderItemDTO struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusHistoryDTO is one committed transition.
type StatusHistoryDTO struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	FromStatus string     `gorm:"type:varchar(32);not null"`
	ToStatus   string     `gorm:"type:varchar(32);not null"`
	Version    int        `gorm:"not null"`
	DriverID   *uuid.UUID `gorm:"type:uuid"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	ActorKind  string     `gorm:"type:varchar(16);not null"`
	At         time.Time  `gorm:"not null"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	shipping := o.Shipping()
	items := o.Items()

	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		Code:          o.Code().String(),
		UserID:        kernel.BytesPtr(o.UserID()),
		BranchID:      o.BranchID().Bytes(),
		Total:         o.Total(),
		PaymentMethod: o.PaymentMethod(),
		Shipping: datatypes.NewJSONType(ShippingDTO{
			RecipientName: shipping.RecipientName(),
			Phone:         shipping.Phone(),
			Address:       shipping.Address(),
			City:          shipping.City(),
			Notes:         shipping.Notes(),
		}),
		SlotID:         kernel.BytesPtr(o.SlotID()),
		CouponID:       kernel.BytesPtr(o.CouponID()),
		CouponDiscount: o.CouponDiscount(),
		Status:         o.Status().String(),
		DriverID:       kernel.BytesPtr(o.DriverID()),
		CreatedAt:      o.CreatedAt(),
		DeliveredAt:    o.DeliveredAt(),
		Version:        o.Version(),
		Items:          make([]OrderItemDTO, 0, len(items)),
	}

	for i, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:   dto.ID,
			Position:  i,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	code, err := order.ParseCode(dto.Code)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.FromBytesPtr(dto.UserID)
	if err != nil {
		return nil, err
	}
	slotID, err := kernel.FromBytesPtr(dto.SlotID)
	if err != nil {
		return nil, err
	}
	couponID, err := kernel.FromBytesPtr(dto.CouponID)
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.FromBytesPtr(dto.DriverID)
	if err != nil {
		return nil, err
	}

	s := dto.Shipping.Data()
	shipping, err := order.NewShippingDetails(s.RecipientName, s.Phone, s.Address, s.City, s.Notes)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, idErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := order.NewItem(productID, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		code,
		order.Checkout{
			UserID:         userID,
			BranchID:       branchID,
			Items:          items,
			Total:          dto.Total,
			PaymentMethod:  dto.PaymentMethod,
			Shipping:       shipping,
			SlotID:         slotID,
			CouponID:       couponID,
			CouponDiscount: dto.CouponDiscount,
		},
		status,
		driverID,
		dto.CreatedAt.UTC(),
		dto.DeliveredAt,
		dto.Version,
	)
}

func actorKindName(kind order.ActorKind) string {
	switch kind {
	case order.ActorSystem:
		return "system"
	case order.ActorStaff:
		return "staff"
	case order.ActorDriver:
		return "driver"
	case order.ActorCustomer:
		return "customer"
	default:
		return "unknown"
	}
}
