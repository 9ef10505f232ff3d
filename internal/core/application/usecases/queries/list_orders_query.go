package queries

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through orders, newest first, optionally filtered by
// owner and status. Role gating happens at the transport.
type ListOrdersQuery struct {
	userID *kernel.UUID
	status *order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery validates the page. A zero limit selects DefaultPageSize.
func NewListOrdersQuery(userID *kernel.UUID, status *order.Status, limit, offset int) (ListOrdersQuery, error) {
	var problems []error
	if status != nil {
		if err := status.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 || limit > MaxPageSize {
		problems = append(problems, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize))
	}
	if offset < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("offset", fmt.Errorf("%d is negative", offset)))
	}
	if err := errors.Join(problems...); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		userID: userID,
		status: status,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) UserID() *kernel.UUID  { return q.userID }
func (q ListOrdersQuery) Status() *order.Status { return q.status }
func (q ListOrdersQuery) Limit() int            { return q.limit }
func (q ListOrdersQuery) Offset() int           { return q.offset }

type ListOrdersQueryResponse struct {
	ID          kernel.UUID
	Code        string
	UserID      *kernel.UUID
	BranchID    kernel.UUID
	Status      string
	Total       decimal.Decimal
	DriverID    *kernel.UUID
	SlotID      *kernel.UUID
	CreatedAt   time.Time
	DeliveredAt *time.Time
}
