package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDriverDeliveryQueryIsNotConstructed = errors.New(
	"DriverDeliveryQuery must be created via NewDriverDeliveryQuery constructor",
)

// DriverDeliveryQuery asks whether an order is out for delivery with a driver.
type DriverDeliveryQuery struct {
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDriverDeliveryQuery(orderID, driverID kernel.UUID) (DriverDeliveryQuery, error) {
	var problems []error
	if err := orderID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("orderId", err))
	}
	if err := driverID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("driverId", err))
	}
	if err := errors.Join(problems...); err != nil {
		return DriverDeliveryQuery{}, err
	}

	return DriverDeliveryQuery{
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q DriverDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrDriverDeliveryQueryIsNotConstructed)
}

func (q DriverDeliveryQuery) OrderID() kernel.UUID  { return q.orderID }
func (q DriverDeliveryQuery) DriverID() kernel.UUID { return q.driverID }
