package commands

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const maxOrderCodeAttempts = 5

var ErrOrderCodeExhausted = errors.New("could not allocate a unique order code")

// CreateOrderResult identifies the placed order.
type CreateOrderResult struct {
	OrderID   kernel.UUID
	OrderCode order.Code
}

// CreateOrderCommandHandler places an order: it reserves stock for every line
// item and the requested delivery slot, stores the order as pending and clears
// the cart, all in one transaction. Coupon bookkeeping and notifications run
// after the commit and never fail the order.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(orderUoW, couponUoW, notifier, order.RandomCodeGenerator(), logger)
//	result, err := handler.Handle(ctx, cmd)
//	var stockErr *errs.InsufficientStockError
//	if errors.As(err, &stockErr) {
//	    fmt.Printf("only %d left of %s\n", stockErr.Available, stockErr.ProductID)
//	}
type CreateOrderCommandHandler struct {
	uowFactory    OrderUoWFactory
	couponFactory CouponUoWFactory
	notifier      ports.OrderNotifier
	codes         order.CodeGenerator
	now           func() time.Time
	logger        *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	couponFactory CouponUoWFactory,
	notifier ports.OrderNotifier,
	codes order.CodeGenerator,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:    uowFactory,
		couponFactory: couponFactory,
		notifier:      notifier,
		codes:         codes,
		now:           time.Now,
		logger:        logger.With("component", "create_order_handler"),
	}
}

// Handle places the order. It fails with a validation error,
// *errs.InsufficientStockError or *errs.SlotFullError, and in each case
// nothing is committed.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	code, err := h.codes()
	if err != nil {
		return CreateOrderResult{}, err
	}

	o, err := order.NewOrder(cmd.OrderID(), code, cmd.Checkout(), h.now())
	if err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = reserveItems(ctx, uow.InventoryLedger(), o); err != nil {
		return CreateOrderResult{}, err
	}

	if slotID := o.SlotID(); slotID != nil {
		if err = uow.CapacityLedger().ReserveSlot(ctx, *slotID); err != nil {
			return CreateOrderResult{}, err
		}
	}

	if err = h.addWithUniqueCode(ctx, uow.OrderRepository(), o); err != nil {
		return CreateOrderResult{}, err
	}

	if userID := o.UserID(); userID != nil {
		if err = uow.CartRepository().Clear(ctx, *userID); err != nil {
			return CreateOrderResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	h.recordCouponUsage(ctx, o)
	h.notifier.OrderPlaced(ctx, o)

	return CreateOrderResult{OrderID: o.ID(), OrderCode: o.Code()}, nil
}

// reserveItems locks inventory rows in product order so that two checkouts
// sharing products cannot deadlock each other.
func reserveItems(ctx context.Context, ledger ports.InventoryLedger, o *order.Order) error {
	items := o.Items()
	slices.SortStableFunc(items, func(a, b order.Item) int {
		return cmp.Compare(a.ProductID().String(), b.ProductID().String())
	})

	for _, item := range items {
		if err := ledger.Reserve(ctx, o.BranchID(), item.ProductID(), item.Quantity()); err != nil {
			return err
		}
	}
	return nil
}

func (h CreateOrderCommandHandler) addWithUniqueCode(ctx context.Context, repo ports.OrderRepository, o *order.Order) error {
	for attempt := 1; ; attempt++ {
		err := repo.Add(ctx, o)
		if !errors.Is(err, errs.ErrDuplicateOrderCode) {
			return err
		}
		if attempt == maxOrderCodeAttempts {
			return fmt.Errorf("%w after %d attempts", ErrOrderCodeExhausted, attempt)
		}

		h.logger.WarnContext(ctx, "order code collision, regenerating", "orderCode", o.Code().String())
		code, err := h.codes()
		if err != nil {
			return err
		}
		if err = o.ReassignCode(code); err != nil {
			return err
		}
	}
}

func (h CreateOrderCommandHandler) recordCouponUsage(ctx context.Context, o *order.Order) {
	couponID := o.CouponID()
	if couponID == nil {
		return
	}

	logger := h.logger.With("orderId", o.ID().String(), "couponId", couponID.String())

	uow := h.couponFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		logger.ErrorContext(ctx, "coupon usage not recorded", "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	inserted, err := uow.CouponRepository().RecordUsage(ctx, ports.CouponUsage{
		CouponID: *couponID,
		UserID:   o.UserID(),
		OrderID:  o.ID(),
		Discount: o.CouponDiscount(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "coupon usage not recorded", "error", err)
		return
	}

	if err = uow.Commit(ctx); err != nil {
		logger.ErrorContext(ctx, "coupon usage not recorded", "error", err)
		return
	}

	if !inserted {
		logger.InfoContext(ctx, "coupon usage already recorded")
	}
}
