package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderNotifier receives committed order changes. Implementations are
// best-effort: they log their own failures and never block the caller on
// slow consumers.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, o *order.Order)
	OrderTransitioned(ctx context.Context, o *order.Order, t order.Transition)
}

// OrderNotifiers fans one notification out to several notifiers in order.
type OrderNotifiers []OrderNotifier

func (n OrderNotifiers) OrderPlaced(ctx context.Context, o *order.Order) {
	for _, notifier := range n {
		notifier.OrderPlaced(ctx, o)
	}
}

func (n OrderNotifiers) OrderTransitioned(ctx context.Context, o *order.Order, t order.Transition) {
	for _, notifier := range n {
		notifier.OrderTransitioned(ctx, o, t)
	}
}
