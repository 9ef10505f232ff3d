// Package inventory models the per-branch, per-product stock counters that
// back order reservations.
package inventory

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrStockRecordIsNotConstructed = errors.New("StockRecord must be created via NewStockRecord constructor")

// MissingRowPolicy decides what Reserve does when a branch has no record for a product.
type MissingRowPolicy int

const (
	// AllowUnconstrained treats a missing record as unlimited stock.
	AllowUnconstrained MissingRowPolicy = iota
	// RejectMissing fails the reservation with zero availability.
	RejectMissing
)

func (p MissingRowPolicy) String() string {
	if p == RejectMissing {
		return "reject"
	}
	return "allow"
}

// StockRecord holds the counters of one (branch, product) pair.
//
// Invariant: 0 <= reserved <= stock. Available() = stock - reserved is the only
// quantity compared with a request.
type StockRecord struct {
	branchID  kernel.UUID
	productID kernel.UUID
	stock     int
	reserved  int

	isConstructed bool
}

// NewStockRecord validates the counters loaded from storage or seeded by the catalog.
func NewStockRecord(branchID, productID kernel.UUID, stock, reserved int) (*StockRecord, error) {
	r := &StockRecord{isConstructed: true}

	if err := errors.Join(
		branchID.Validate(),
		productID.Validate(),
		r.setCounters(stock, reserved),
	); err != nil {
		return nil, err
	}

	r.branchID = branchID
	r.productID = productID
	return r, nil
}

func (r *StockRecord) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrStockRecordIsNotConstructed
	}
	return nil
}

func (r *StockRecord) BranchID() kernel.UUID  { return r.branchID }
func (r *StockRecord) ProductID() kernel.UUID { return r.productID }
func (r *StockRecord) Stock() int             { return r.stock }
func (r *StockRecord) Reserved() int          { return r.reserved }

func (r *StockRecord) Available() int {
	return r.stock - r.reserved
}

// Reserve holds qty units for a pending order.
func (r *StockRecord) Reserve(qty int) error {
	if err := validateQuantity(qty); err != nil {
		return err
	}
	if available := r.Available(); available < qty {
		return errs.NewInsufficientStockError(r.productID.String(), qty, available)
	}
	r.reserved += qty
	return nil
}

// Deduct turns a reservation into a physical removal. Both counters floor at 0.
func (r *StockRecord) Deduct(qty int) error {
	if err := validateQuantity(qty); err != nil {
		return err
	}
	r.stock = max(0, r.stock-qty)
	r.reserved = max(0, r.reserved-qty)
	return nil
}

// Release returns reserved units. The counter floors at 0.
func (r *StockRecord) Release(qty int) error {
	if err := validateQuantity(qty); err != nil {
		return err
	}
	r.reserved = max(0, r.reserved-qty)
	return nil
}

func (r *StockRecord) setCounters(stock, reserved int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stockQuantity", fmt.Errorf("%d is negative", stock))
	}
	if reserved < 0 || reserved > stock {
		return errs.NewValueIsOutOfRangeError("reservedQuantity", reserved, 0, stock)
	}
	r.stock = stock
	r.reserved = reserved
	return nil
}

func validateQuantity(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", qty))
	}
	return nil
}
