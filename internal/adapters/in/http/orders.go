package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/auth"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /orders. Guests may order without a user id;
// an authenticated caller may only order for themselves unless elevated.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}

	checkout, err := req.checkout()
	if err != nil {
		return s.fail(ctx, err)
	}

	identity, authenticated := identityFrom(ctx)
	switch {
	case checkout.UserID == nil && authenticated && !identity.IsElevated():
		checkout.UserID = &identity.UserID
	case checkout.UserID != nil && !authenticated:
		return s.fail(ctx, fmt.Errorf("%w: ordering for a user requires a token", errs.ErrAuthRequired))
	case checkout.UserID != nil && !identity.IsElevated() && !checkout.UserID.IsEqual(identity.UserID):
		return s.fail(ctx, fmt.Errorf("%w: cannot order for another user", errs.ErrUnauthorized))
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), checkout)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID:   result.OrderID.String(),
		OrderCode: result.OrderCode.String(),
	})
}

func (r CreateOrderRequest) checkout() (order.Checkout, error) {
	var problems []error

	userID, err := optionalUUID("userId", r.UserID)
	problems = append(problems, err)
	branchID, err := requiredUUID("branchId", r.BranchID)
	problems = append(problems, err)
	slotID, err := optionalUUID("deliverySlotId", r.DeliverySlotID)
	problems = append(problems, err)
	couponID, err := optionalUUID("couponId", r.CouponID)
	problems = append(problems, err)

	items := make([]order.Item, 0, len(r.Items))
	for i, line := range r.Items {
		productID, err := requiredUUID(fmt.Sprintf("items[%d].productId", i), line.ProductID)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		item, err := order.NewItem(productID, line.Quantity, line.UnitPrice)
		if err != nil {
			problems = append(problems, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	shipping, err := order.NewShippingDetails(
		r.ShippingDetails.RecipientName,
		r.ShippingDetails.Phone,
		r.ShippingDetails.Address,
		r.ShippingDetails.City,
		r.ShippingDetails.Notes,
	)
	problems = append(problems, err)

	if err = errors.Join(problems...); err != nil {
		return order.Checkout{}, err
	}

	return order.Checkout{
		UserID:         userID,
		BranchID:       branchID,
		Items:          items,
		Total:          r.Total,
		PaymentMethod:  r.PaymentMethod,
		Shipping:       shipping,
		SlotID:         slotID,
		CouponID:       couponID,
		CouponDiscount: r.CouponDiscount,
	}, nil
}

// TrackOrder handles GET /orders/track/:code. Knowing the code is enough.
func (s *Server) TrackOrder(ctx echo.Context) error {
	query, err := queries.NewTrackOrderQuery(ctx.Param("code"))
	if err != nil {
		return s.fail(ctx, err)
	}

	tracked, err := s.handlers.TrackOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newTrackedOrder(tracked))
}

// ListOrders handles GET /orders. Customers only ever see their own orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	identity, _ := identityFrom(ctx)

	userID, err := optionalUUID("userId", ctx.QueryParam("userId"))
	if err != nil {
		return s.fail(ctx, err)
	}
	if identity.HasRole(auth.RoleCustomer) {
		if userID != nil && !userID.IsEqual(identity.UserID) {
			return s.fail(ctx, fmt.Errorf("%w: customers may only list their own orders", errs.ErrUnauthorized))
		}
		userID = &identity.UserID
	}

	var status *order.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return s.fail(ctx, err)
		}
		status = &parsed
	}

	limit, err := intParam(ctx, "limit")
	if err != nil {
		return s.fail(ctx, err)
	}
	offset, err := intParam(ctx, "offset")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewListOrdersQuery(userID, status, limit, offset)
	if err != nil {
		return s.fail(ctx, err)
	}

	rows, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := OrderList{
		Orders: make([]OrderSummary, 0, len(rows)),
		Limit:  query.Limit(),
		Offset: query.Offset(),
	}
	for _, row := range rows {
		response.Orders = append(response.Orders, newOrderSummary(row))
	}

	return ctx.JSON(http.StatusOK, response)
}

// TransitionOrderStatus handles PUT /orders/:id/status. Which transitions the
// caller may apply depends on their role and is decided by the order.
func (s *Server) TransitionOrderStatus(ctx echo.Context) error {
	orderID, err := requiredUUID("id", ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}

	var req TransitionOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	identity, _ := identityFrom(ctx)
	cmd, err := commands.NewTransitionOrderStatusCommand(orderID, status, actorOf(identity))
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.TransitionOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrder(o))
}

// AssignDriver handles PUT /orders/:id/assign.
func (s *Server) AssignDriver(ctx echo.Context) error {
	orderID, err := requiredUUID("id", ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}

	var req AssignDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}
	driverID, err := requiredUUID("driverId", req.DriverID)
	if err != nil {
		return s.fail(ctx, err)
	}

	identity, _ := identityFrom(ctx)
	cmd, err := commands.NewAssignDriverCommand(orderID, driverID, actorOf(identity))
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.AssignDriver.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrder(o))
}

func actorOf(identity auth.Identity) order.Actor {
	switch {
	case identity.IsElevated():
		return order.StaffActor(identity.UserID)
	case identity.HasRole(auth.RoleDriver):
		return order.DriverActor(identity.UserID)
	default:
		return order.CustomerActor(identity.UserID)
	}
}

func requiredUUID(param, raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(param)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

func optionalUUID(param, raw string) (*kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := requiredUUID(param, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func intParam(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return n, nil
}

// fail writes the error response, logging what the caller cannot see.
func (s *Server) fail(ctx echo.Context, err error) error {
	if errs.CodeOf(err) == errs.CodeInternal {
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) {
			s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
				"method", ctx.Request().Method,
				"path", ctx.Path(),
				"error", err,
			)
		}
	}
	return writeError(ctx, err)
}
