// Package kafka publishes order lifecycle events for downstream consumers.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	eventVersion = 1
)

// Envelope wraps every event published to the topic.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderCreatedPayload struct {
	OrderID       string             `json:"order_id"`
	Code          string             `json:"code"`
	UserID        string             `json:"user_id,omitempty"`
	BranchID      string             `json:"branch_id"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	SlotID        string             `json:"slot_id,omitempty"`
	CouponID      string             `json:"coupon_id,omitempty"`
	Items         []OrderItemPayload `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

type OrderStatusChangedPayload struct {
	OrderID  string `json:"order_id"`
	Code     string `json:"code"`
	BranchID string `json:"branch_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Version  int    `json:"version"`
	DriverID string `json:"driver_id,omitempty"`
}
