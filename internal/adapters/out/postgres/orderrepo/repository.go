package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolationCode = "23505"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its items inside a savepoint, so a code clash
// rolls back only this insert and the caller may retry with a new code.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
	if err != nil {
		if isCodeClash(err) {
			return errs.ErrDuplicateOrderCode
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the mutable columns. Items and checkout data never change
// after placement.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":       dto.Status,
			"driver_id":    dto.DriverID,
			"delivered_at": dto.DeliveredAt,
			"version":      dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.load(ctx, r.db.WithContext(ctx).Where("id = ?", id.Bytes()), id.String())
}

func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id.Bytes())
	return r.load(ctx, query, id.String())
}

// GetFirstReady locks the oldest ready order, skipping rows other dispatchers
// or transitions already hold.
func (r *GormOrderRepository) GetFirstReady(ctx context.Context) (*order.Order, error) {
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", order.Ready.String()).
		Order("created_at")
	return r.load(ctx, query, "first ready")
}

func (r *GormOrderRepository) AppendStatusChange(ctx context.Context, t order.Transition, actor order.Actor) error {
	row := StatusHistoryDTO{
		OrderID:    t.OrderID.Bytes(),
		FromStatus: t.From.String(),
		ToStatus:   t.To.String(),
		Version:    t.Version,
		DriverID:   kernel.BytesPtr(t.DriverID),
		ActorID:    kernel.BytesPtr(actor.ID),
		ActorKind:  actorKindName(actor.Kind),
		At:         t.At,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// load reads the order row through query, then its items in their original order.
func (r *GormOrderRepository) load(ctx context.Context, query *gorm.DB, ref string) (*order.Order, error) {
	var dto OrderDTO
	if err := query.Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", ref)
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Order("position").
		Find(&dto.Items).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func isCodeClash(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		pgErr.ConstraintName == codeIndexName
}
