package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

const maxPaymentMethodLength = 32

// Checkout holds everything the customer submits when placing an order.
type Checkout struct {
	UserID         *kernel.UUID
	BranchID       kernel.UUID
	Items          []Item
	Total          decimal.Decimal
	PaymentMethod  string
	Shipping       ShippingDetails
	SlotID         *kernel.UUID
	CouponID       *kernel.UUID
	CouponDiscount decimal.Decimal
}

// Order is the aggregate root of the fulfillment lifecycle.
//
// Invariants:
//   - items is a non-empty snapshot fixed at creation
//   - total is positive
//   - status changes only through TransitionTo or AssignDriver
//   - a driver is present exactly from assigned_to_delivery onwards
type Order struct {
	id          kernel.UUID
	code        Code
	checkout    Checkout
	status      Status
	driverID    *kernel.UUID
	createdAt   time.Time
	deliveredAt *time.Time
	version     int

	isConstructed bool
}

// NewOrder validates the checkout and creates a pending order.
//
// Example:
//
//	item, _ := order.NewItem(productID, 2, decimal.RequireFromString("4.50"))
//	shipping, _ := order.NewShippingDetails("Ann", "+998901234567", "1 Main St", "Tashkent", "")
//	o, err := order.NewOrder(kernel.NewUUID(), code, order.Checkout{
//	    BranchID:      branchID,
//	    Items:         []order.Item{item},
//	    Total:         decimal.RequireFromString("9.00"),
//	    PaymentMethod: "cash",
//	    Shipping:      shipping,
//	}, time.Now())
func NewOrder(id kernel.UUID, code Code, checkout Checkout, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     createdAt.UTC(),
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setCheckout(checkout),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order loaded from storage and re-checks its invariants.
func RestoreOrder(
	id kernel.UUID,
	code Code,
	checkout Checkout,
	status Status,
	driverID *kernel.UUID,
	createdAt time.Time,
	deliveredAt *time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		status:        status,
		driverID:      driverID,
		createdAt:     createdAt,
		deliveredAt:   deliveredAt,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setCheckout(checkout),
		status.Validate(),
		status.ValidateCanHaveDriver(driverID != nil),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) Code() Code                      { return o.code }
func (o *Order) UserID() *kernel.UUID            { return o.checkout.UserID }
func (o *Order) BranchID() kernel.UUID           { return o.checkout.BranchID }
func (o *Order) Total() decimal.Decimal          { return o.checkout.Total }
func (o *Order) PaymentMethod() string           { return o.checkout.PaymentMethod }
func (o *Order) Shipping() ShippingDetails       { return o.checkout.Shipping }
func (o *Order) SlotID() *kernel.UUID            { return o.checkout.SlotID }
func (o *Order) CouponID() *kernel.UUID          { return o.checkout.CouponID }
func (o *Order) CouponDiscount() decimal.Decimal { return o.checkout.CouponDiscount }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) DriverID() *kernel.UUID          { return o.driverID }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) DeliveredAt() *time.Time         { return o.deliveredAt }

// Version increases with every transition.
func (o *Order) Version() int { return o.version }

// Items returns a copy of the line item snapshot.
func (o *Order) Items() []Item {
	return slices.Clone(o.checkout.Items)
}

// LoyaltyPoints is floor(total), the reward for a delivered order.
func (o *Order) LoyaltyPoints() int64 {
	return o.checkout.Total.Floor().IntPart()
}

// ReassignCode replaces the code of a pending order that has not been stored
// yet, after the storage reported a collision.
func (o *Order) ReassignCode(code Code) error {
	if o.status != Pending || o.version != 1 {
		return errs.NewValueIsInvalidErrorWithCause("orderCode", errors.New("code can only change before the order is placed"))
	}
	return o.setCode(code)
}

// TransitionTo moves the order to next and reports the effects the caller must
// apply. assigned_to_delivery is reached through AssignDriver only.
func (o *Order) TransitionTo(next Status, at time.Time) (Transition, error) {
	if next == AssignedToDelivery {
		return Transition{}, errs.NewValueIsRequiredErrorWithCause(
			"driverId",
			errors.New("assigned_to_delivery requires a driver"),
		)
	}
	return o.apply(next, at)
}

// AssignDriver moves a ready order to assigned_to_delivery.
func (o *Order) AssignDriver(driverID kernel.UUID, at time.Time) (Transition, error) {
	if err := driverID.Validate(); err != nil {
		return Transition{}, errs.NewValueIsRequiredErrorWithCause("driverId", err)
	}

	t, err := o.apply(AssignedToDelivery, at)
	if err != nil {
		return Transition{}, err
	}

	o.driverID = &driverID
	t.DriverID = &driverID
	return t, nil
}

func (o *Order) apply(next Status, at time.Time) (Transition, error) {
	prev := o.status
	newStatus, err := prev.TransitionTo(next)
	if err != nil {
		return Transition{}, err
	}

	t := Transition{
		OrderID:  o.id,
		From:     prev,
		To:       newStatus,
		At:       at.UTC(),
		DriverID: o.driverID,
	}

	if prev == Pending && newStatus == Confirmed {
		t.DeductStock = true
	}

	if newStatus.IsFailure() {
		// confirmation turned the reservation into a deduction, so only a
		// pending order still holds reserved stock.
		t.ReleaseReservation = prev == Pending
		t.ReleaseSlot = o.checkout.SlotID != nil
	}

	if newStatus == Delivered && prev != Delivered {
		delivered := at.UTC()
		o.deliveredAt = &delivered
		if o.checkout.UserID != nil {
			t.LoyaltyPoints = o.LoyaltyPoints()
		}
	}

	o.status = newStatus
	o.version++
	t.Version = o.version
	return t, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code Code) error {
	parsed, err := ParseCode(code.String())
	if err != nil {
		return err
	}
	o.code = parsed
	return nil
}

func (o *Order) setCheckout(c Checkout) error {
	var problems []error

	if err := c.BranchID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("branchId", err))
	}

	if len(c.Items) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("items"))
	}
	for i, item := range c.Items {
		if err := item.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err))
		}
	}

	if !c.Total.IsPositive() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("%s is not greater than 0", c.Total)))
	}

	method := strings.TrimSpace(c.PaymentMethod)
	switch {
	case method == "":
		problems = append(problems, errs.NewValueIsRequiredError("paymentMethod"))
	case len(method) > maxPaymentMethodLength:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"paymentMethod", fmt.Errorf("longer than %d characters", maxPaymentMethodLength)))
	}
	c.PaymentMethod = method

	if err := c.Shipping.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("shippingDetails", err))
	}

	if c.CouponDiscount.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"couponDiscount", fmt.Errorf("%s is negative", c.CouponDiscount)))
	}
	if c.CouponID == nil && c.CouponDiscount.IsPositive() {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause(
			"couponId", errors.New("a discount needs a coupon")))
	}

	if err := errors.Join(problems...); err != nil {
		return err
	}

	c.Items = slices.Clone(c.Items)
	o.checkout = c
	return nil
}
