package realtime_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fulfillment/internal/adapters/in/realtime"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAvailabilityHandler struct{ mock.Mock }

func (m *MockAvailabilityHandler) Handle(ctx context.Context, cmd commands.SetDriverAvailabilityCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockPositionHandler struct{ mock.Mock }

func (m *MockPositionHandler) Handle(ctx context.Context, cmd commands.RecordDriverPositionCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockOpenConversationHandler struct{ mock.Mock }

func (m *MockOpenConversationHandler) Handle(
	ctx context.Context,
	cmd commands.OpenConversationCommand,
) (*chat.Conversation, bool, error) {
	args := m.Called(ctx, cmd)
	c, _ := args.Get(0).(*chat.Conversation)
	return c, args.Bool(1), args.Error(2)
}

type MockSendChatMessageHandler struct{ mock.Mock }

func (m *MockSendChatMessageHandler) Handle(ctx context.Context, cmd commands.SendChatMessageCommand) (chat.Message, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(chat.Message), args.Error(1)
}

type MockAssignConversationHandler struct{ mock.Mock }

func (m *MockAssignConversationHandler) Handle(
	ctx context.Context,
	cmd commands.AssignConversationCommand,
) (*chat.Conversation, error) {
	args := m.Called(ctx, cmd)
	c, _ := args.Get(0).(*chat.Conversation)
	return c, args.Error(1)
}

type MockMarkMessagesReadHandler struct{ mock.Mock }

func (m *MockMarkMessagesReadHandler) Handle(ctx context.Context, cmd commands.MarkMessagesReadCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type MockCloseConversationHandler struct{ mock.Mock }

func (m *MockCloseConversationHandler) Handle(
	ctx context.Context,
	cmd commands.CloseConversationCommand,
) (*chat.Conversation, error) {
	args := m.Called(ctx, cmd)
	c, _ := args.Get(0).(*chat.Conversation)
	return c, args.Error(1)
}

type MockConversationMessagesHandler struct{ mock.Mock }

func (m *MockConversationMessagesHandler) Handle(
	ctx context.Context,
	query queries.ConversationMessagesQuery,
) ([]chat.Message, error) {
	args := m.Called(ctx, query)
	messages, _ := args.Get(0).([]chat.Message)
	return messages, args.Error(1)
}

type MockDriverDeliveryHandler struct{ mock.Mock }

func (m *MockDriverDeliveryHandler) Handle(ctx context.Context, query queries.DriverDeliveryQuery) (bool, error) {
	args := m.Called(ctx, query)
	return args.Bool(0), args.Error(1)
}

type handlerMocks struct {
	availability *MockAvailabilityHandler
	position     *MockPositionHandler
	open         *MockOpenConversationHandler
	send         *MockSendChatMessageHandler
	assign       *MockAssignConversationHandler
	markRead     *MockMarkMessagesReadHandler
	close        *MockCloseConversationHandler
	history      *MockConversationMessagesHandler
	delivery     *MockDriverDeliveryHandler
}

func newHandlerMocks() *handlerMocks {
	return &handlerMocks{
		availability: new(MockAvailabilityHandler),
		position:     new(MockPositionHandler),
		open:         new(MockOpenConversationHandler),
		send:         new(MockSendChatMessageHandler),
		assign:       new(MockAssignConversationHandler),
		markRead:     new(MockMarkMessagesReadHandler),
		close:        new(MockCloseConversationHandler),
		history:      new(MockConversationMessagesHandler),
		delivery:     new(MockDriverDeliveryHandler),
	}
}

func (m *handlerMocks) handlers() realtime.Handlers {
	return realtime.Handlers{
		SetDriverAvailability: m.availability,
		RecordDriverPosition:  m.position,
		OpenConversation:      m.open,
		SendChatMessage:       m.send,
		AssignConversation:    m.assign,
		MarkMessagesRead:      m.markRead,
		CloseConversation:     m.close,
		ConversationMessages:  m.history,
		DriverDelivery:        m.delivery,
	}
}

func (m *handlerMocks) assertExpectations(t *testing.T) {
	m.availability.AssertExpectations(t)
	m.position.AssertExpectations(t)
	m.open.AssertExpectations(t)
	m.send.AssertExpectations(t)
	m.assign.AssertExpectations(t)
	m.markRead.AssertExpectations(t)
	m.close.AssertExpectations(t)
	m.history.AssertExpectations(t)
	m.delivery.AssertExpectations(t)
}

// frame is the decoded form of a server frame.
type frame struct {
	Event string          `json:"event"`
	Room  string          `json:"room"`
	Data  json.RawMessage `json:"data"`
}

type ack struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type failure struct {
	Event   string `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func nextFrame(t *testing.T, s *realtime.Session) frame {
	t.Helper()
	select {
	case raw := <-s.Outbox():
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("expected a frame")
		return frame{}
	}
}

func assertNoFrame(t *testing.T, s *realtime.Session) {
	t.Helper()
	select {
	case raw := <-s.Outbox():
		t.Fatalf("unexpected frame %s", raw)
	default:
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func expectAck(t *testing.T, s *realtime.Session, event string) ack {
	t.Helper()
	f := nextFrame(t, s)
	require.Equal(t, realtime.EventAck, f.Event, string(f.Data))
	a := decode[ack](t, f.Data)
	require.Equal(t, event, a.Event)
	return a
}

func expectError(t *testing.T, s *realtime.Session, event, code string) failure {
	t.Helper()
	f := nextFrame(t, s)
	require.Equal(t, realtime.EventError, f.Event, string(f.Data))
	e := decode[failure](t, f.Data)
	require.Equal(t, event, e.Event)
	require.Equal(t, code, e.Code, e.Message)
	return e
}
