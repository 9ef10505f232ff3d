package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type ShippingDetailsRequest struct {
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Notes         string `json:"notes"`
}

type CreateOrderRequest struct {
	UserID          string                 `json:"userId"`
	BranchID        string                 `json:"branchId"`
	Items           []OrderItemRequest     `json:"items"`
	Total           decimal.Decimal        `json:"total"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ShippingDetails ShippingDetailsRequest `json:"shippingDetails"`
	DeliverySlotID  string                 `json:"deliverySlotId"`
	CouponID        string                 `json:"couponId"`
	CouponDiscount  decimal.Decimal        `json:"couponDiscount"`
}

type CreateOrderResponse struct {
	OrderID   string `json:"orderId"`
	OrderCode string `json:"orderCode"`
}

type TransitionOrderStatusRequest struct {
	Status string `json:"status"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driverId"`
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Order is the staff view of an order returned by mutations.
type Order struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	UserID        *string         `json:"userId"`
	BranchID      string          `json:"branchId"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	DriverID      *string         `json:"driverId"`
	SlotID        *string         `json:"deliverySlotId"`
	Items         []OrderItem     `json:"items"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	DeliveredAt   *time.Time      `json:"deliveredAt"`
}

// TrackedOrder is the public projection behind an order code.
type TrackedOrder struct {
	ID              string                  `json:"id"`
	Code            string                  `json:"code"`
	Status          string                  `json:"status"`
	Total           decimal.Decimal         `json:"total"`
	PaymentMethod   string                  `json:"paymentMethod"`
	ShippingDetails queries.TrackedShipping `json:"shippingDetails"`
	Items           []OrderItem             `json:"items"`
	HasDriver       bool                    `json:"hasDriver"`
	CreatedAt       time.Time               `json:"createdAt"`
	DeliveredAt     *time.Time              `json:"deliveredAt"`
}

type OrderSummary struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	UserID      *string         `json:"userId"`
	BranchID    string          `json:"branchId"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	DriverID    *string         `json:"driverId"`
	SlotID      *string         `json:"deliverySlotId"`
	CreatedAt   time.Time       `json:"createdAt"`
	DeliveredAt *time.Time      `json:"deliveredAt"`
}

type OrderList struct {
	Orders []OrderSummary `json:"orders"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type HotDealSale struct {
	ID        string `json:"id"`
	SoldCount int64  `json:"soldCount"`
}

type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SenderType     string    `json:"senderType"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func newOrder(o *order.Order) Order {
	items := make([]OrderItem, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItem{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}
	return Order{
		ID:            o.ID().String(),
		Code:          o.Code().String(),
		UserID:        optionalID(o.UserID()),
		BranchID:      o.BranchID().String(),
		Status:        o.Status().String(),
		Total:         o.Total(),
		PaymentMethod: o.PaymentMethod(),
		DriverID:      optionalID(o.DriverID()),
		SlotID:        optionalID(o.SlotID()),
		Items:         items,
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		DeliveredAt:   o.DeliveredAt(),
	}
}

func newTrackedOrder(r queries.TrackOrderQueryResponse) TrackedOrder {
	items := make([]OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return TrackedOrder{
		ID:              r.ID.String(),
		Code:            r.Code,
		Status:          r.Status,
		Total:           r.Total,
		PaymentMethod:   r.PaymentMethod,
		ShippingDetails: r.Shipping,
		Items:           items,
		HasDriver:       r.HasDriver,
		CreatedAt:       r.CreatedAt,
		DeliveredAt:     r.DeliveredAt,
	}
}

func newOrderSummary(r queries.ListOrdersQueryResponse) OrderSummary {
	return OrderSummary{
		ID:          r.ID.String(),
		Code:        r.Code,
		UserID:      optionalID(r.UserID),
		BranchID:    r.BranchID.String(),
		Status:      r.Status,
		Total:       r.Total,
		DriverID:    optionalID(r.DriverID),
		SlotID:      optionalID(r.SlotID),
		CreatedAt:   r.CreatedAt,
		DeliveredAt: r.DeliveredAt,
	}
}

func newChatMessage(m chat.Message) ChatMessage {
	return ChatMessage{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		SenderType:     string(m.SenderType),
		Body:           m.Body,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
