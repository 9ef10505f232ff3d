// Package slotrepo implements the delivery capacity ledger on delivery_slots.
package slotrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/slot"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeliverySlotDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	StartsAt      time.Time `gorm:"not null"`
	EndsAt        time.Time `gorm:"not null"`
	MaxOrders     int       `gorm:"not null;check:chk_delivery_slots_max,max_orders >= 0"`
	CurrentOrders int       `gorm:"not null;default:0;check:chk_delivery_slots_current,current_orders >= 0 AND current_orders <= max_orders"`
}

func (DeliverySlotDTO) TableName() string {
	return "delivery_slots"
}

// GormCapacityLedger implements ports.CapacityLedger.
type GormCapacityLedger struct {
	db *gorm.DB
}

func NewGormCapacityLedger(db *gorm.DB) *GormCapacityLedger {
	return &GormCapacityLedger{db: db}
}

func (l *GormCapacityLedger) Add(ctx context.Context, s *slot.DeliverySlot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := fromDomain(s)
	return l.db.WithContext(ctx).Create(&dto).Error
}

func (l *GormCapacityLedger) Get(ctx context.Context, id kernel.UUID) (*slot.DeliverySlot, error) {
	return l.find(ctx, l.db.WithContext(ctx), id)
}

// ReserveSlot takes one place under the row lock.
func (l *GormCapacityLedger) ReserveSlot(ctx context.Context, slotID kernel.UUID) error {
	s, err := l.find(ctx, l.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), slotID)
	if err != nil {
		return err
	}
	if err = s.Reserve(); err != nil {
		return err
	}
	return l.save(ctx, s)
}

// ReleaseSlot gives one place back. A slot that no longer exists is ignored.
func (l *GormCapacityLedger) ReleaseSlot(ctx context.Context, slotID kernel.UUID) error {
	s, err := l.find(ctx, l.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), slotID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.Release()
	return l.save(ctx, s)
}

func (l *GormCapacityLedger) find(_ context.Context, query *gorm.DB, id kernel.UUID) (*slot.DeliverySlot, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliverySlotDTO
	if err := query.Where("id = ?", id.Bytes()).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliverySlot", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (l *GormCapacityLedger) save(ctx context.Context, s *slot.DeliverySlot) error {
	return l.db.WithContext(ctx).
		Model(&DeliverySlotDTO{}).
		Where("id = ?", s.ID().Bytes()).
		Update("current_orders", s.CurrentOrders()).Error
}

func fromDomain(s *slot.DeliverySlot) DeliverySlotDTO {
	return DeliverySlotDTO{
		ID:            s.ID().Bytes(),
		BranchID:      s.BranchID().Bytes(),
		StartsAt:      s.StartsAt(),
		EndsAt:        s.EndsAt(),
		MaxOrders:     s.MaxOrders(),
		CurrentOrders: s.CurrentOrders(),
	}
}

func toDomain(dto DeliverySlotDTO) (*slot.DeliverySlot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}
	return slot.NewDeliverySlot(id, branchID, dto.StartsAt.UTC(), dto.EndsAt.UTC(), dto.MaxOrders, dto.CurrentOrders)
}
