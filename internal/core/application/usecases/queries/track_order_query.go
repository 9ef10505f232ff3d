package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrTrackOrderQueryIsNotConstructed = errors.New(
	"TrackOrderQuery must be created via NewTrackOrderQuery constructor",
)

// TrackOrderQuery is the public lookup by order code. Knowing the code is the
// only credential required.
//
// Example:
//
//	query, err := NewTrackOrderQuery("ORD-7KQ2ZP")
//	if err != nil {
//	    return err // malformed code
//	}
//	projection, err := handler.Handle(ctx, query)
type TrackOrderQuery struct {
	code order.Code

	guard guard.ConstructorGuard
}

func NewTrackOrderQuery(code string) (TrackOrderQuery, error) {
	parsed, err := order.ParseCode(code)
	if err != nil {
		return TrackOrderQuery{}, err
	}
	return TrackOrderQuery{code: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

func (q TrackOrderQuery) Code() order.Code { return q.code }

// TrackOrderQueryResponse is the read-only order projection. It carries no
// user or branch identifiers.
type TrackOrderQueryResponse struct {
	ID            kernel.UUID
	Code          string
	Status        string
	Total         decimal.Decimal
	PaymentMethod string
	Shipping      TrackedShipping
	Items         []TrackedItem
	HasDriver     bool
	CreatedAt     time.Time
	DeliveredAt   *time.Time
}

type TrackedShipping struct {
	RecipientName string `json:"recipientName,omitempty"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type TrackedItem struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}
