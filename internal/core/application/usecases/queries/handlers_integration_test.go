package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/chatrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type QueryHandlersTestSuite struct {
	suite.Suite
	pg     *pgtest.Database
	orders *orderrepo.GormOrderRepository
	chats  *chatrepo.GormConversationRepository
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.Require().NoError(postgres_adapter.Migrate(pg.DB))
	suite.pg = pg
	suite.orders = orderrepo.NewGormOrderRepository(pg.DB, noopTracker{})
	suite.chats = chatrepo.NewGormConversationRepository(pg.DB, noopTracker{})
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate(postgres_adapter.Tables()...))
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *QueryHandlersTestSuite) TestTrackOrder_ReturnsProjection() {
	ctx := context.Background()
	userID := kernel.NewUUID()
	o := suite.saveOrder("ORD-TRACK1", &userID, time.Now())

	query, err := queries.NewTrackOrderQuery("ORD-TRACK1")
	suite.Require().NoError(err)

	result, err := queries.NewTrackOrderQueryHandler(suite.pg.DB).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(o.ID(), result.ID)
	suite.Equal("ORD-TRACK1", result.Code)
	suite.Equal("pending", result.Status)
	suite.True(decimal.RequireFromString("23.50").Equal(result.Total))
	suite.Equal("cash", result.PaymentMethod)
	suite.Equal("Ann", result.Shipping.RecipientName)
	suite.Equal("1 Main St", result.Shipping.Address)
	suite.False(result.HasDriver)
	suite.Nil(result.DeliveredAt)

	suite.Require().Len(result.Items, 2)
	suite.Equal(o.Items()[0].ProductID(), result.Items[0].ProductID)
	suite.Equal(3, result.Items[0].Quantity)
	suite.True(decimal.RequireFromString("4.50").Equal(result.Items[0].UnitPrice))
	suite.Equal(1, result.Items[1].Quantity)
}

func (suite *QueryHandlersTestSuite) TestTrackOrder_UnknownCode() {
	query, err := queries.NewTrackOrderQuery("ORD-ZZZZZZ")
	suite.Require().NoError(err)

	_, err = queries.NewTrackOrderQueryHandler(suite.pg.DB).Handle(context.Background(), query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestTrackOrder_InvalidQuery() {
	_, err := queries.NewTrackOrderQueryHandler(suite.pg.DB).Handle(context.Background(), queries.TrackOrderQuery{})
	suite.ErrorIs(err, queries.ErrTrackOrderQueryIsNotConstructed)
}

func (suite *QueryHandlersTestSuite) TestListOrders_NewestFirstWithFilters() {
	ctx := context.Background()
	alice := kernel.NewUUID()
	bob := kernel.NewUUID()
	base := time.Now().Add(-time.Hour)

	oldest := suite.saveOrder("ORD-LIST01", &alice, base)
	suite.saveOrder("ORD-LIST02", &bob, base.Add(time.Minute))
	newest := suite.saveOrder("ORD-LIST03", &alice, base.Add(2*time.Minute))

	handler := queries.NewListOrdersQueryHandler(suite.pg.DB)

	all, err := queries.NewListOrdersQuery(nil, nil, 0, 0)
	suite.Require().NoError(err)
	result, err := handler.Handle(ctx, all)
	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	suite.Equal("ORD-LIST03", result[0].Code)
	suite.Equal("ORD-LIST01", result[2].Code)

	mine, err := queries.NewListOrdersQuery(&alice, nil, 0, 0)
	suite.Require().NoError(err)
	result, err = handler.Handle(ctx, mine)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(newest.ID(), result[0].ID)
	suite.Equal(oldest.ID(), result[1].ID)
	suite.Equal(alice, *result[0].UserID)

	page, err := queries.NewListOrdersQuery(nil, nil, 1, 1)
	suite.Require().NoError(err)
	result, err = handler.Handle(ctx, page)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("ORD-LIST02", result[0].Code)
}

func (suite *QueryHandlersTestSuite) TestListOrders_FiltersByStatus() {
	ctx := context.Background()
	o := suite.saveOrder("ORD-STAT01", nil, time.Now())
	suite.saveOrder("ORD-STAT02", nil, time.Now())

	_, err := o.TransitionTo(order.Confirmed, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Update(ctx, o))

	status := order.Confirmed
	query, err := queries.NewListOrdersQuery(nil, &status, 0, 0)
	suite.Require().NoError(err)

	result, err := queries.NewListOrdersQueryHandler(suite.pg.DB).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(o.ID(), result[0].ID)
	suite.Equal("confirmed", result[0].Status)
}

func (suite *QueryHandlersTestSuite) TestListOrders_EmptyDatabase() {
	query, err := queries.NewListOrdersQuery(nil, nil, 0, 0)
	suite.Require().NoError(err)

	result, err := queries.NewListOrdersQueryHandler(suite.pg.DB).Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *QueryHandlersTestSuite) TestDriverDelivery_OnlyWhileOutForDelivery() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	o := suite.saveOrder("ORD-DRIVE1", nil, time.Now())
	handler := queries.NewDriverDeliveryQueryHandler(suite.pg.DB)

	ask := func(driver kernel.UUID) bool {
		query, err := queries.NewDriverDeliveryQuery(o.ID(), driver)
		suite.Require().NoError(err)
		ok, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		return ok
	}

	suite.False(ask(driverID), "pending order has no driver")

	for _, next := range []order.Status{order.Confirmed, order.Preparing, order.Ready} {
		_, err := o.TransitionTo(next, time.Now())
		suite.Require().NoError(err)
	}
	_, err := o.AssignDriver(driverID, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Update(ctx, o))

	suite.True(ask(driverID))
	suite.False(ask(kernel.NewUUID()), "another driver")

	for _, next := range []order.Status{order.Accepted, order.PickedUp, order.Arriving, order.Delivered} {
		_, err = o.TransitionTo(next, time.Now())
		suite.Require().NoError(err)
	}
	suite.Require().NoError(suite.orders.Update(ctx, o))

	suite.False(ask(driverID), "delivered order")
}

func (suite *QueryHandlersTestSuite) TestConversationMessages_InSendOrder() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	agentID := kernel.NewUUID()
	now := time.Now()

	conversation, err := chat.NewConversation(kernel.NewUUID(), customerID, now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.chats.Add(ctx, conversation))

	for i, body := range []string{"hello", "hi, how can I help?", "where is my order"} {
		sender, senderType := customerID, chat.SenderCustomer
		if i == 1 {
			sender, senderType = agentID, chat.SenderAgent
		}
		msg, err := chat.NewMessage(kernel.NewUUID(), conversation, sender, senderType, body, now.Add(time.Duration(i)*time.Second))
		suite.Require().NoError(err)
		suite.Require().NoError(suite.chats.AddMessage(ctx, msg))
	}

	handler := queries.NewConversationMessagesQueryHandler(suite.chats)

	query, err := queries.NewConversationMessagesQuery(conversation.ID(), chat.Customer(customerID), 0, 0)
	suite.Require().NoError(err)
	messages, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(messages, 3)
	suite.Equal("hello", messages[0].Body)
	suite.Equal(chat.SenderAgent, messages[1].SenderType)
	suite.Equal("where is my order", messages[2].Body)

	stranger, err := queries.NewConversationMessagesQuery(conversation.ID(), chat.Customer(kernel.NewUUID()), 0, 0)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, stranger)
	suite.ErrorIs(err, errs.ErrUnauthorized)
}

func (suite *QueryHandlersTestSuite) saveOrder(code string, userID *kernel.UUID, createdAt time.Time) *order.Order {
	c, err := order.ParseCode(code)
	suite.Require().NoError(err)

	first, err := order.NewItem(kernel.NewUUID(), 3, decimal.RequireFromString("4.50"))
	suite.Require().NoError(err)
	second, err := order.NewItem(kernel.NewUUID(), 1, decimal.RequireFromString("10.00"))
	suite.Require().NoError(err)
	shipping, err := order.NewShippingDetails("Ann", "+998901234567", "1 Main St", "Tashkent", "")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), c, order.Checkout{
		UserID:        userID,
		BranchID:      kernel.NewUUID(),
		Items:         []order.Item{first, second},
		Total:         decimal.RequireFromString("23.50"),
		PaymentMethod: "cash",
		Shipping:      shipping,
	}, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), o))
	return o
}

func TestQueryHandlersTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(QueryHandlersTestSuite))
}
