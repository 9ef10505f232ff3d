package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordHotDealSaleCommandIsNotConstructed = errors.New(
	"RecordHotDealSaleCommand must be created via NewRecordHotDealSaleCommand constructor",
)

// RecordHotDealSaleCommand bumps the sold counter of a promotional deal.
type RecordHotDealSaleCommand struct {
	dealID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRecordHotDealSaleCommand(dealID kernel.UUID) (RecordHotDealSaleCommand, error) {
	if err := dealID.Validate(); err != nil {
		return RecordHotDealSaleCommand{}, err
	}
	return RecordHotDealSaleCommand{dealID: dealID, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordHotDealSaleCommand) Validate() error {
	return c.guard.Validate(ErrRecordHotDealSaleCommandIsNotConstructed)
}

func (c RecordHotDealSaleCommand) DealID() kernel.UUID { return c.dealID }
