// Package ports defines the contracts between the application core and its
// adapters. Every repository returned by a UnitOfWork runs inside that unit's
// transaction once Begin has been called.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. A clash on the order code returns
	// errs.ErrDuplicateOrderCode and leaves the enclosing transaction usable.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a transitioned order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and holds its row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstReady locks the oldest ready order that no other transaction
	// holds, for the dispatch job.
	GetFirstReady(ctx context.Context) (*order.Order, error)

	// AppendStatusChange writes one row of the status history.
	AppendStatusChange(ctx context.Context, t order.Transition, actor order.Actor) error
}
