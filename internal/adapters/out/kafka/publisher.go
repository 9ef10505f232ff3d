package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// Writer is the part of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter returns an async writer keyed by order id, so events of one order
// stay in one partition. Delivery failures are logged from the completion hook.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *kafka.Writer {
	logger = logger.With("component", "kafka_writer", "topic", topic)
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver order events", "count", len(messages), "error", err)
			}
		},
	}
}

// OrderEventPublisher turns committed order changes into envelopes.
type OrderEventPublisher struct {
	writer   Writer
	producer string
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrderEventPublisher(writer Writer, producer string, logger *slog.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{
		writer:   writer,
		producer: producer,
		logger:   logger.With("component", "order_event_publisher"),
		now:      time.Now,
	}
}

func (p *OrderEventPublisher) OrderPlaced(ctx context.Context, o *order.Order) {
	payload := OrderCreatedPayload{
		OrderID:       o.ID().String(),
		Code:          o.Code().String(),
		BranchID:      o.BranchID().String(),
		Total:         o.Total(),
		PaymentMethod: o.PaymentMethod(),
		CreatedAt:     o.CreatedAt(),
	}
	if userID := o.UserID(); userID != nil {
		payload.UserID = userID.String()
	}
	if slotID := o.SlotID(); slotID != nil {
		payload.SlotID = slotID.String()
	}
	if couponID := o.CouponID(); couponID != nil {
		payload.CouponID = couponID.String()
	}
	for _, item := range o.Items() {
		payload.Items = append(payload.Items, OrderItemPayload{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	p.publish(ctx, o, EventOrderCreated, payload)
}

func (p *OrderEventPublisher) OrderTransitioned(ctx context.Context, o *order.Order, t order.Transition) {
	payload := OrderStatusChangedPayload{
		OrderID:  o.ID().String(),
		Code:     o.Code().String(),
		BranchID: o.BranchID().String(),
		From:     t.From.String(),
		To:       t.To.String(),
		Version:  t.Version,
	}
	if t.DriverID != nil {
		payload.DriverID = t.DriverID.String()
	}

	p.publish(ctx, o, EventOrderStatusChanged, payload)
}

func (p *OrderEventPublisher) publish(ctx context.Context, o *order.Order, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to encode order event", "orderId", o.ID().String(), "event", eventType, "error", err)
		return
	}
	value, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      p.producer,
		CorrelationID: o.ID().String(),
		Payload:       raw,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to encode order event", "orderId", o.ID().String(), "event", eventType, "error", err)
		return
	}

	// the request may be gone by the time the write happens
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.ID().String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to publish order event", "orderId", o.ID().String(), "event", eventType, "error", err)
	}
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

var _ ports.OrderNotifier = (*OrderEventPublisher)(nil)
