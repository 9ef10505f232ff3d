// Package driverrepo persists delivery staff: availability and the last
// position snapshot.
package driverrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormDriverRepository) SetAvailability(ctx context.Context, id kernel.UUID, available bool) error {
	if err := id.Validate(); err != nil {
		return err
	}
	return r.updateColumns(ctx, id, map[string]any{"is_available": available})
}

func (r *GormDriverRepository) SavePosition(ctx context.Context, id kernel.UUID, position kernel.GeoPoint, at time.Time) error {
	if err := errors.Join(id.Validate(), position.Validate()); err != nil {
		return err
	}
	return r.updateColumns(ctx, id, map[string]any{
		"last_lat":         position.Lat(),
		"last_lng":         position.Lng(),
		"last_location_at": at.UTC(),
	})
}

// GetAllFree returns the available drivers of a branch that carry no order
// still on the delivery leg.
//
// Example:
//
//	drivers, err := repo.GetAllFree(ctx, branchID)
//	if err != nil {
//		return fmt.Errorf("failed to get free drivers: %w", err)
//	}
func (r *GormDriverRepository) GetAllFree(ctx context.Context, branchID kernel.UUID) ([]*driver.Driver, error) {
	if err := branchID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Table("delivery_staff").
		Select("delivery_staff.*").
		Joins("LEFT JOIN orders ON orders.driver_id = delivery_staff.id AND orders.status IN ?", activeStatusNames()).
		Where("delivery_staff.branch_id = ? AND delivery_staff.is_available", branchID.Bytes()).
		Where("orders.id IS NULL").
		Order("delivery_staff.name").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}

	return drivers, nil
}

func (r *GormDriverRepository) updateColumns(ctx context.Context, id kernel.UUID, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&DriverDTO{}).Where("id = ?", id.Bytes()).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", id.String())
	}
	return nil
}

func activeStatusNames() []string {
	return []string{
		order.AssignedToDelivery.String(),
		order.Accepted.String(),
		order.PickedUp.String(),
		order.Arriving.String(),
	}
}
