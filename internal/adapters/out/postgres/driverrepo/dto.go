package driverrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is a delivery_staff row. The position columns hold the throttled
// snapshot and are all null until the first report.
type DriverDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID       uuid.UUID `gorm:"type:uuid;not null;index:idx_delivery_staff_branch_available"`
	Name           string    `gorm:"type:varchar(255);not null"`
	IsAvailable    bool      `gorm:"not null;default:false;index:idx_delivery_staff_branch_available"`
	LastLat        *float64
	LastLng        *float64
	LastLocationAt *time.Time
}

func (DriverDTO) TableName() string {
	return "delivery_staff"
}

func fromDomain(d *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:             d.ID().Bytes(),
		BranchID:       d.BranchID().Bytes(),
		Name:           d.Name(),
		IsAvailable:    d.IsAvailable(),
		LastLocationAt: d.PositionAt(),
	}
	if p := d.Position(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		dto.LastLat = &lat
		dto.LastLng = &lng
	}
	return dto
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	var position *kernel.GeoPoint
	if dto.LastLat != nil && dto.LastLng != nil {
		p, pErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if pErr != nil {
			return nil, pErr
		}
		position = &p
	}

	return driver.RestoreDriver(id, branchID, dto.Name, dto.IsAvailable, position, dto.LastLocationAt)
}
