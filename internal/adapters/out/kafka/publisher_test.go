package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	orderevents "fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 3, decimal.RequireFromString("2.50"))
	require.NoError(t, err)
	shipping, err := order.NewShippingDetails("Ann", "+998901234567", "1 Main St", "", "")
	require.NoError(t, err)
	userID := kernel.NewUUID()

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-K4FK4A", order.Checkout{
		UserID:        &userID,
		BranchID:      kernel.NewUUID(),
		Items:         []order.Item{item},
		Total:         decimal.RequireFromString("7.50"),
		PaymentMethod: "card",
		Shipping:      shipping,
	}, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func captured(t *testing.T, writer *MockWriter) kafka.Message {
	t.Helper()
	require.Len(t, writer.Calls, 1)
	msgs := writer.Calls[0].Arguments.Get(1).([]kafka.Message)
	require.Len(t, msgs, 1)
	return msgs[0]
}

func TestOrderEventPublisher_OrderPlaced(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(nil).Once()
	publisher := orderevents.NewOrderEventPublisher(writer, "fulfillment-api", slog.New(slog.DiscardHandler))
	o := newOrder(t)

	publisher.OrderPlaced(context.Background(), o)

	msg := captured(t, writer)
	assert.Equal(t, o.ID().String(), string(msg.Key))

	var envelope orderevents.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, orderevents.EventOrderCreated, envelope.EventType)
	assert.Equal(t, 1, envelope.EventVersion)
	assert.Equal(t, "fulfillment-api", envelope.Producer)
	assert.Equal(t, o.ID().String(), envelope.CorrelationID)
	assert.NotEmpty(t, envelope.EventID)

	var payload orderevents.OrderCreatedPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "ORD-K4FK4A", payload.Code)
	assert.Equal(t, o.UserID().String(), payload.UserID)
	assert.True(t, decimal.RequireFromString("7.50").Equal(payload.Total))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 3, payload.Items[0].Quantity)
	writer.AssertExpectations(t)
}

func TestOrderEventPublisher_OrderTransitioned(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(nil).Once()
	publisher := orderevents.NewOrderEventPublisher(writer, "fulfillment-api", slog.New(slog.DiscardHandler))
	o := newOrder(t)
	transition, err := o.TransitionTo(order.Confirmed, time.Now())
	require.NoError(t, err)

	publisher.OrderTransitioned(context.Background(), o, transition)

	msg := captured(t, writer)
	var envelope orderevents.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, orderevents.EventOrderStatusChanged, envelope.EventType)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, orderevents.EventOrderStatusChanged, string(msg.Headers[0].Value))

	var payload orderevents.OrderStatusChangedPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "pending", payload.From)
	assert.Equal(t, "confirmed", payload.To)
	assert.Equal(t, transition.Version, payload.Version)
	assert.Empty(t, payload.DriverID)
}

func TestOrderEventPublisher_WriteFailureIsSwallowed(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	publisher := orderevents.NewOrderEventPublisher(writer, "fulfillment-api", slog.New(slog.DiscardHandler))

	assert.NotPanics(t, func() {
		publisher.OrderPlaced(context.Background(), newOrder(t))
	})
	writer.AssertExpectations(t)
}

func TestOrderEventPublisher_WritesAfterRequestIsCancelled(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil).Once()
	publisher := orderevents.NewOrderEventPublisher(writer, "fulfillment-api", slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	publisher.OrderPlaced(ctx, newOrder(t))

	writer.AssertExpectations(t)
}

func TestNewWriter(t *testing.T) {
	w := orderevents.NewWriter([]string{"localhost:9092"}, "orders", slog.New(slog.DiscardHandler))

	assert.Equal(t, "orders", w.Topic)
	assert.True(t, w.Async)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.NoError(t, w.Close())
}
