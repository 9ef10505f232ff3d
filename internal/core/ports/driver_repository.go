package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
)

// DriverRepository persists delivery staff rows.
type DriverRepository interface {
	Add(ctx context.Context, d *driver.Driver) error
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// SetAvailability flips the availability flag.
	SetAvailability(ctx context.Context, id kernel.UUID, available bool) error

	// SavePosition stores a position snapshot.
	SavePosition(ctx context.Context, id kernel.UUID, position kernel.GeoPoint, at time.Time) error

	// GetAllFree returns available drivers of a branch that carry no active order.
	GetAllFree(ctx context.Context, branchID kernel.UUID) ([]*driver.Driver, error)
}
