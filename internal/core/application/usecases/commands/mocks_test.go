package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetFirstReady(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AppendStatusChange(ctx context.Context, t order.Transition, actor order.Actor) error {
	args := m.Called(ctx, t, actor)
	return args.Error(0)
}

type MockInventoryLedger struct{ mock.Mock }

func (m *MockInventoryLedger) Reserve(ctx context.Context, branchID, productID kernel.UUID, qty int) error {
	args := m.Called(ctx, branchID, productID, qty)
	return args.Error(0)
}

func (m *MockInventoryLedger) Deduct(ctx context.Context, branchID, productID kernel.UUID, qty int) error {
	args := m.Called(ctx, branchID, productID, qty)
	return args.Error(0)
}

func (m *MockInventoryLedger) Release(ctx context.Context, branchID, productID kernel.UUID, qty int) error {
	args := m.Called(ctx, branchID, productID, qty)
	return args.Error(0)
}

type MockCapacityLedger struct{ mock.Mock }

func (m *MockCapacityLedger) ReserveSlot(ctx context.Context, slotID kernel.UUID) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}

func (m *MockCapacityLedger) ReleaseSlot(ctx context.Context, slotID kernel.UUID) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}

type MockLoyaltyLedger struct{ mock.Mock }

func (m *MockLoyaltyLedger) Award(ctx context.Context, userID kernel.UUID, points int64) error {
	args := m.Called(ctx, userID, points)
	return args.Error(0)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Clear(ctx context.Context, userID kernel.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockCouponRepository struct{ mock.Mock }

func (m *MockCouponRepository) RecordUsage(ctx context.Context, usage ports.CouponUsage) (bool, error) {
	args := m.Called(ctx, usage)
	return args.Bool(0), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) SetAvailability(ctx context.Context, id kernel.UUID, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

func (m *MockDriverRepository) SavePosition(ctx context.Context, id kernel.UUID, position kernel.GeoPoint, at time.Time) error {
	args := m.Called(ctx, id, position, at)
	return args.Error(0)
}

func (m *MockDriverRepository) GetAllFree(ctx context.Context, branchID kernel.UUID) ([]*driver.Driver, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockConversationRepository struct{ mock.Mock }

func (m *MockConversationRepository) Add(ctx context.Context, c *chat.Conversation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConversationRepository) Update(ctx context.Context, c *chat.Conversation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConversationRepository) Get(ctx context.Context, id kernel.UUID) (*chat.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Conversation), args.Error(1)
}

func (m *MockConversationRepository) GetActiveByCustomer(ctx context.Context, customerID kernel.UUID) (*chat.Conversation, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Conversation), args.Error(1)
}

func (m *MockConversationRepository) AddMessage(ctx context.Context, msg chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockConversationRepository) MarkRead(ctx context.Context, conversationID kernel.UUID, readerType chat.SenderType) (int64, error) {
	args := m.Called(ctx, conversationID, readerType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConversationRepository) ListMessages(ctx context.Context, conversationID kernel.UUID, limit, offset int) ([]chat.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chat.Message), args.Error(1)
}

type MockHotDealRepository struct{ mock.Mock }

func (m *MockHotDealRepository) IncrementSold(ctx context.Context, dealID kernel.UUID) (int64, error) {
	args := m.Called(ctx, dealID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies every narrowed unit of work interface of the package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) InventoryLedger() ports.InventoryLedger {
	args := m.Called()
	return args.Get(0).(ports.InventoryLedger)
}

func (m *MockUoW) CapacityLedger() ports.CapacityLedger {
	args := m.Called()
	return args.Get(0).(ports.CapacityLedger)
}

func (m *MockUoW) LoyaltyLedger() ports.LoyaltyLedger {
	args := m.Called()
	return args.Get(0).(ports.LoyaltyLedger)
}

func (m *MockUoW) CartRepository() ports.CartRepository {
	args := m.Called()
	return args.Get(0).(ports.CartRepository)
}

func (m *MockUoW) CouponRepository() ports.CouponRepository {
	args := m.Called()
	return args.Get(0).(ports.CouponRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) ConversationRepository() ports.ConversationRepository {
	args := m.Called()
	return args.Get(0).(ports.ConversationRepository)
}

func (m *MockUoW) HotDealRepository() ports.HotDealRepository {
	args := m.Called()
	return args.Get(0).(ports.HotDealRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCouponUoWFactory struct{ mock.Mock }

func (m *MockCouponUoWFactory) Create() commands.CouponUoW {
	args := m.Called()
	return args.Get(0).(commands.CouponUoW)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.DispatchUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockChatUoWFactory struct{ mock.Mock }

func (m *MockChatUoWFactory) Create() commands.ChatUoW {
	args := m.Called()
	return args.Get(0).(commands.ChatUoW)
}

type MockHotDealUoWFactory struct{ mock.Mock }

func (m *MockHotDealUoWFactory) Create() commands.HotDealUoW {
	args := m.Called()
	return args.Get(0).(commands.HotDealUoW)
}

type MockOrderNotifier struct{ mock.Mock }

func (m *MockOrderNotifier) OrderPlaced(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockOrderNotifier) OrderTransitioned(ctx context.Context, o *order.Order, t order.Transition) {
	m.Called(ctx, o, t)
}

func newItem(t *testing.T, productID kernel.UUID, qty int, price string) order.Item {
	t.Helper()
	item, err := order.NewItem(productID, qty, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func newShipping(t *testing.T) order.ShippingDetails {
	t.Helper()
	shipping, err := order.NewShippingDetails("Ann Lee", "+998901234567", "1 Main St", "Tashkent", "")
	require.NoError(t, err)
	return shipping
}

func fixedCodes(codes ...string) order.CodeGenerator {
	i := 0
	return func() (order.Code, error) {
		c, err := order.ParseCode(codes[i%len(codes)])
		i++
		return c, err
	}
}

// newOrderIn builds a stored order and walks it to status.
func newOrderIn(t *testing.T, userID *kernel.UUID, slotID *kernel.UUID, status order.Status) *order.Order {
	t.Helper()

	code, err := order.ParseCode("ORD-ABC123")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), code, order.Checkout{
		UserID:        userID,
		BranchID:      kernel.NewUUID(),
		Items:         []order.Item{newItem(t, kernel.NewUUID(), 3, "4.50"), newItem(t, kernel.NewUUID(), 1, "10.00")},
		Total:         decimal.RequireFromString("23.50"),
		PaymentMethod: "cash",
		Shipping:      newShipping(t),
		SlotID:        slotID,
	}, time.Now())
	require.NoError(t, err)

	for _, next := range []order.Status{
		order.Confirmed, order.Preparing, order.Ready, order.AssignedToDelivery,
		order.Accepted, order.PickedUp, order.Arriving, order.Delivered,
	} {
		if o.Status() == status {
			break
		}
		if next == order.AssignedToDelivery {
			_, err = o.AssignDriver(kernel.NewUUID(), time.Now())
		} else {
			_, err = o.TransitionTo(next, time.Now())
		}
		require.NoError(t, err)
	}
	require.Equal(t, status, o.Status())
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
