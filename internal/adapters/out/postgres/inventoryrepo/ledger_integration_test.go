package inventoryrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type InventoryLedgerIntegrationTestSuite struct {
	suite.Suite
	pg        *pgtest.Database
	db        *gorm.DB
	branchID  kernel.UUID
	productID kernel.UUID
}

func (suite *InventoryLedgerIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(), &inventoryrepo.BranchProductDTO{})
	suite.Require().NoError(err)
	suite.pg = pg
	suite.db = pg.DB
}

func (suite *InventoryLedgerIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("branch_products"))
	suite.branchID = kernel.NewUUID()
	suite.productID = kernel.NewUUID()
}

func (suite *InventoryLedgerIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *InventoryLedgerIntegrationTestSuite) TestReserve_NeverOversells() {
	ctx := context.Background()
	suite.seed(10, 2)

	suite.Require().NoError(suite.inTx(func(l *inventoryrepo.GormInventoryLedger) error {
		return l.Reserve(ctx, suite.branchID, suite.productID, 5)
	}))

	err := suite.inTx(func(l *inventoryrepo.GormInventoryLedger) error {
		return l.Reserve(ctx, suite.branchID, suite.productID, 4)
	})
	var stockErr *errs.InsufficientStockError
	suite.Require().ErrorAs(err, &stockErr)
	suite.Equal(3, stockErr.Available)
	suite.Equal(4, stockErr.Requested)
	suite.Equal(suite.productID.String(), stockErr.ProductID)

	suite.assertCounters(10, 7)
}

func (suite *InventoryLedgerIntegrationTestSuite) TestReserve_ConcurrentCheckoutsSerialize() {
	ctx := context.Background()
	suite.seed(10, 0)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.inTx(func(l *inventoryrepo.GormInventoryLedger) error {
				return l.Reserve(ctx, suite.branchID, suite.productID, 3)
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, errs.ErrInsufficientStock):
				rejected++
			}
		}()
	}
	wg.Wait()

	suite.Equal(3, succeeded)
	suite.Equal(workers-3, rejected)
	suite.assertCounters(10, 9)
}

func (suite *InventoryLedgerIntegrationTestSuite) TestDeduct_ConvertsReservation() {
	ctx := context.Background()
	suite.seed(10, 4)

	suite.Require().NoError(suite.inTx(func(l *inventoryrepo.GormInventoryLedger) error {
		return l.Deduct(ctx, suite.branchID, suite.productID, 3)
	}))

	suite.assertCounters(7, 1)
}

func (suite *InventoryLedgerIntegrationTestSuite) TestRelease_FloorsAtZero() {
	ctx := context.Background()
	suite.seed(10, 2)

	suite.Require().NoError(suite.inTx(func(l *inventoryrepo.GormInventoryLedger) error {
		return l.Release(ctx, suite.branchID, suite.productID, 5)
	}))

	suite.assertCounters(10, 0)
}

func (suite *InventoryLedgerIntegrationTestSuite) TestReserve_MissingRowFollowsPolicy() {
	ctx := context.Background()
	unknown := kernel.NewUUID()

	allow := inventoryrepo.NewGormInventoryLedger(suite.db, inventory.AllowUnconstrained)
	suite.Require().NoError(allow.Reserve(ctx, suite.branchID, unknown, 100))

	strict := inventoryrepo.NewGormInventoryLedger(suite.db, inventory.RejectMissing)
	err := strict.Reserve(ctx, suite.branchID, unknown, 1)
	var stockErr *errs.InsufficientStockError
	suite.Require().ErrorAs(err, &stockErr)
	suite.Equal(0, stockErr.Available)

	suite.Require().NoError(strict.Release(ctx, suite.branchID, unknown, 1))
}

func (suite *InventoryLedgerIntegrationTestSuite) TestReserve_RollbackLeavesCountersUntouched() {
	ctx := context.Background()
	suite.seed(10, 0)

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	ledger := inventoryrepo.NewGormInventoryLedger(tx, inventory.AllowUnconstrained)
	suite.Require().NoError(ledger.Reserve(ctx, suite.branchID, suite.productID, 6))
	suite.Require().NoError(tx.Rollback().Error)

	suite.assertCounters(10, 0)
}

func (suite *InventoryLedgerIntegrationTestSuite) seed(stock, reserved int) {
	record, err := inventory.NewStockRecord(suite.branchID, suite.productID, stock, reserved)
	suite.Require().NoError(err)
	ledger := inventoryrepo.NewGormInventoryLedger(suite.db, inventory.AllowUnconstrained)
	suite.Require().NoError(ledger.Put(context.Background(), record))
}

func (suite *InventoryLedgerIntegrationTestSuite) inTx(fn func(*inventoryrepo.GormInventoryLedger) error) error {
	return suite.db.Transaction(func(tx *gorm.DB) error {
		return fn(inventoryrepo.NewGormInventoryLedger(tx, inventory.AllowUnconstrained))
	})
}

func (suite *InventoryLedgerIntegrationTestSuite) assertCounters(stock, reserved int) {
	ledger := inventoryrepo.NewGormInventoryLedger(suite.db, inventory.AllowUnconstrained)
	record, err := ledger.Get(context.Background(), suite.branchID, suite.productID)
	suite.Require().NoError(err)
	suite.Equal(stock, record.Stock())
	suite.Equal(reserved, record.Reserved())
}

func TestInventoryLedgerIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(InventoryLedgerIntegrationTestSuite))
}
