package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordDriverPositionCommandIsNotConstructed = errors.New(
	"RecordDriverPositionCommand must be created via NewRecordDriverPositionCommand constructor",
)

// RecordDriverPositionCommand stores a throttled position snapshot used to
// recover a driver's last location after a reconnect.
type RecordDriverPositionCommand struct {
	driverID kernel.UUID
	position kernel.GeoPoint
	at       time.Time

	guard guard.ConstructorGuard
}

func NewRecordDriverPositionCommand(
	driverID kernel.UUID,
	position kernel.GeoPoint,
	at time.Time,
) (RecordDriverPositionCommand, error) {
	if err := errors.Join(driverID.Validate(), position.Validate()); err != nil {
		return RecordDriverPositionCommand{}, err
	}
	return RecordDriverPositionCommand{
		driverID: driverID,
		position: position,
		at:       at.UTC(),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecordDriverPositionCommand) Validate() error {
	return c.guard.Validate(ErrRecordDriverPositionCommandIsNotConstructed)
}

func (c RecordDriverPositionCommand) DriverID() kernel.UUID     { return c.driverID }
func (c RecordDriverPositionCommand) Position() kernel.GeoPoint { return c.position }
func (c RecordDriverPositionCommand) At() time.Time             { return c.at }
