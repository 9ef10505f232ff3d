// Package hotdealrepo counts sales of promotional deals.
package hotdealrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HotDealDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(255);not null"`
	SoldCount int64     `gorm:"not null;default:0"`
}

func (HotDealDTO) TableName() string {
	return "hot_deals"
}

// GormHotDealRepository implements ports.HotDealRepository.
type GormHotDealRepository struct {
	db *gorm.DB
}

func NewGormHotDealRepository(db *gorm.DB) *GormHotDealRepository {
	return &GormHotDealRepository{db: db}
}

// IncrementSold bumps sold_count atomically and returns the new value.
func (r *GormHotDealRepository) IncrementSold(ctx context.Context, dealID kernel.UUID) (int64, error) {
	if err := dealID.Validate(); err != nil {
		return 0, err
	}

	var dto HotDealDTO
	result := r.db.WithContext(ctx).
		Model(&dto).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "sold_count"}}}).
		Where("id = ?", dealID.Bytes()).
		Update("sold_count", gorm.Expr("sold_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, errs.NewObjectNotFoundError("hotDeal", dealID.String())
	}
	return dto.SoldCount, nil
}

func (r *GormHotDealRepository) Add(ctx context.Context, id kernel.UUID, title string) error {
	dto := HotDealDTO{ID: id.Bytes(), Title: title}
	return r.db.WithContext(ctx).Create(&dto).Error
}
