package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordHotDealSaleCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	dealID := kernel.NewUUID()
	cmd, err := commands.NewRecordHotDealSaleCommand(dealID)
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockHotDealUoWFactory)
	deals := new(MockHotDealRepository)

	factory.On("Create").Return(uow).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("HotDealRepository").Return(deals).Once(),
		deals.On("IncrementSold", ctx, dealID).Return(int64(8), nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	sold, err := commands.NewRecordHotDealSaleCommandHandler(factory).Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(8), sold)
	uow.AssertExpectations(t)
	deals.AssertExpectations(t)
}

func TestRecordHotDealSaleCommandHandler_UnknownDeal(t *testing.T) {
	ctx := t.Context()
	dealID := kernel.NewUUID()
	cmd, err := commands.NewRecordHotDealSaleCommand(dealID)
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockHotDealUoWFactory)
	deals := new(MockHotDealRepository)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("HotDealRepository").Return(deals).Once()
	deals.On("IncrementSold", ctx, dealID).Return(int64(0), errs.NewObjectNotFoundError("hotDeal", dealID.String())).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	_, err = commands.NewRecordHotDealSaleCommandHandler(factory).Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
