package http_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.CreateOrderResult), args.Error(1)
}

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, cmd commands.TransitionOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockAssignDriverHandler struct{ mock.Mock }

func (m *MockAssignDriverHandler) Handle(ctx context.Context, cmd commands.AssignDriverCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockHotDealHandler struct{ mock.Mock }

func (m *MockHotDealHandler) Handle(ctx context.Context, cmd commands.RecordHotDealSaleCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type MockTrackOrderHandler struct{ mock.Mock }

func (m *MockTrackOrderHandler) Handle(ctx context.Context, query queries.TrackOrderQuery) (queries.TrackOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.TrackOrderQueryResponse), args.Error(1)
}

type MockListOrdersHandler struct{ mock.Mock }

func (m *MockListOrdersHandler) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	rows, _ := args.Get(0).([]queries.ListOrdersQueryResponse)
	return rows, args.Error(1)
}

type MockConversationMessagesHandler struct{ mock.Mock }

func (m *MockConversationMessagesHandler) Handle(ctx context.Context, query queries.ConversationMessagesQuery) ([]chat.Message, error) {
	args := m.Called(ctx, query)
	messages, _ := args.Get(0).([]chat.Message)
	return messages, args.Error(1)
}

type MockHealthChecker struct{ mock.Mock }

func (m *MockHealthChecker) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
