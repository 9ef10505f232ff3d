// Package cartrepo owns the cart_items rows cleared on checkout.
package cartrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartItemDTO struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int       `gorm:"not null;check:chk_cart_items_quantity,quantity > 0"`
}

func (CartItemDTO) TableName() string {
	return "cart_items"
}

// GormCartRepository implements ports.CartRepository.
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Clear removes every line of the user's cart. An empty cart is not an error.
func (r *GormCartRepository) Clear(ctx context.Context, userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID.Bytes()).
		Delete(&CartItemDTO{}).Error
}

// Count returns how many lines the user's cart holds.
func (r *GormCartRepository) Count(ctx context.Context, userID kernel.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&CartItemDTO{}).Where("user_id = ?", userID.Bytes()).Count(&n).Error
	return n, err
}
