package driverrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
	tracker    *MockAggregateTracker
	branchID   kernel.UUID
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(),
		&driverrepo.DriverDTO{}, &orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{})
	suite.Require().NoError(err)
	suite.pg = pg
	suite.db = pg.DB
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("order_items", "orders", "delivery_staff"))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.repository = driverrepo.NewGormDriverRepository(suite.db, suite.tracker)
	suite.branchID = kernel.NewUUID()
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAddAndGet() {
	ctx := context.Background()
	d := suite.addDriver("Bob", false)

	loaded, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal("Bob", loaded.Name())
	suite.Equal(suite.branchID, loaded.BranchID())
	suite.False(loaded.IsAvailable())
	suite.Nil(loaded.Position())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestSavePosition_StoresSnapshot() {
	ctx := context.Background()
	d := suite.addDriver("Bob", true)
	position, err := kernel.NewGeoPoint(41.3111, 69.2797)
	suite.Require().NoError(err)
	at := time.Now().UTC()

	suite.Require().NoError(suite.repository.SavePosition(ctx, d.ID(), position, at))

	loaded, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(loaded.Position())
	suite.InDelta(41.3111, loaded.Position().Lat(), 1e-9)
	suite.InDelta(69.2797, loaded.Position().Lng(), 1e-9)
	suite.WithinDuration(at, *loaded.PositionAt(), time.Millisecond)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestSetAvailability_UnknownDriver() {
	err := suite.repository.SetAvailability(context.Background(), kernel.NewUUID(), true)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetAllFree_ExcludesBusyOfflineAndOtherBranches() {
	ctx := context.Background()
	free := suite.addDriver("Alice", true)
	busy := suite.addDriver("Bob", true)
	suite.addDriver("Carol", false)
	finished := suite.addDriver("Dave", true)

	other, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Eve")
	suite.Require().NoError(err)
	other.SetAvailable(true)
	suite.Require().NoError(suite.repository.Add(ctx, other))

	suite.addOrderWithDriver("ORD-BUSY01", busy.ID(), order.PickedUp)
	suite.addOrderWithDriver("ORD-DONE01", finished.ID(), order.Delivered)

	drivers, err := suite.repository.GetAllFree(ctx, suite.branchID)
	suite.Require().NoError(err)

	ids := make([]kernel.UUID, 0, len(drivers))
	for _, d := range drivers {
		ids = append(ids, d.ID())
	}
	suite.ElementsMatch([]kernel.UUID{free.ID(), finished.ID()}, ids)
}

func (suite *DriverRepositoryIntegrationTestSuite) addDriver(name string, available bool) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), suite.branchID, name)
	suite.Require().NoError(err)
	d.SetAvailable(available)
	suite.Require().NoError(suite.repository.Add(context.Background(), d))
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) addOrderWithDriver(code string, driverID kernel.UUID, status order.Status) {
	c, err := order.ParseCode(code)
	suite.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), 1, decimal.RequireFromString("5.00"))
	suite.Require().NoError(err)
	shipping, err := order.NewShippingDetails("", "+998901234567", "1 Main St", "", "")
	suite.Require().NoError(err)

	o, err := order.RestoreOrder(kernel.NewUUID(), c, order.Checkout{
		BranchID:      suite.branchID,
		Items:         []order.Item{item},
		Total:         decimal.RequireFromString("5.00"),
		PaymentMethod: "cash",
		Shipping:      shipping,
	}, status, &driverID, time.Now(), nil, 6)
	suite.Require().NoError(err)

	suite.Require().NoError(orderrepo.NewGormOrderRepository(suite.db, suite.tracker).Add(context.Background(), o))
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
