// Package loyaltyrepo credits loyalty points.
package loyaltyrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoyaltyAccountDTO struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Points    int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (LoyaltyAccountDTO) TableName() string {
	return "loyalty_accounts"
}

// GormLoyaltyLedger implements ports.LoyaltyLedger.
type GormLoyaltyLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormLoyaltyLedger(db *gorm.DB) *GormLoyaltyLedger {
	return &GormLoyaltyLedger{db: db, now: time.Now}
}

// Award adds points to the user's balance, opening the account on first use.
func (l *GormLoyaltyLedger) Award(ctx context.Context, userID kernel.UUID, points int64) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	if points <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("points", fmt.Errorf("%d is not greater than 0", points))
	}

	row := LoyaltyAccountDTO{
		UserID:    userID.Bytes(),
		Points:    points,
		UpdatedAt: l.now().UTC(),
	}
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"points":     gorm.Expr("loyalty_accounts.points + EXCLUDED.points"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&row).Error
}

// Balance returns the user's points, zero for a user without an account.
func (l *GormLoyaltyLedger) Balance(ctx context.Context, userID kernel.UUID) (int64, error) {
	var dto LoyaltyAccountDTO
	err := l.db.WithContext(ctx).Where("user_id = ?", userID.Bytes()).Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dto.Points, nil
}
