package realtime

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
)

var _ ports.OrderNotifier = (*Notifier)(nil)

// Notifier pushes committed order changes to the rooms that care about them.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

type OrderItemView struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// NewOrderPush goes to the branch room when an order is placed.
type NewOrderPush struct {
	OrderID   string          `json:"orderId"`
	Code      string          `json:"code"`
	BranchID  string          `json:"branchId"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItemView `json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
}

// StatusPush goes to the order room on every transition.
type StatusPush struct {
	OrderID  string    `json:"orderId"`
	Code     string    `json:"code"`
	From     string    `json:"from"`
	Status   string    `json:"status"`
	Version  int       `json:"version"`
	DriverID string    `json:"driverId,omitempty"`
	At       time.Time `json:"at"`
}

// AssignmentPush goes to the driver room when an order is assigned.
type AssignmentPush struct {
	OrderID  string          `json:"orderId"`
	Code     string          `json:"code"`
	BranchID string          `json:"branchId"`
	Total    decimal.Decimal `json:"total"`
	Address  string          `json:"address"`
	City     string          `json:"city,omitempty"`
	Phone    string          `json:"phone"`
	Notes    string          `json:"notes,omitempty"`
	Items    []OrderItemView `json:"items"`
}

func itemViews(o *order.Order) []OrderItemView {
	items := o.Items()
	views := make([]OrderItemView, 0, len(items))
	for _, item := range items {
		views = append(views, OrderItemView{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}
	return views
}

func (n *Notifier) OrderPlaced(ctx context.Context, o *order.Order) {
	n.hub.Publish(ctx, BranchRoom(o.BranchID()), EventOrderNew, NewOrderPush{
		OrderID:   o.ID().String(),
		Code:      o.Code().String(),
		BranchID:  o.BranchID().String(),
		Status:    o.Status().String(),
		Total:     o.Total(),
		Items:     itemViews(o),
		CreatedAt: o.CreatedAt(),
	})
}

func (n *Notifier) OrderTransitioned(ctx context.Context, o *order.Order, t order.Transition) {
	push := StatusPush{
		OrderID: o.ID().String(),
		Code:    o.Code().String(),
		From:    t.From.String(),
		Status:  t.To.String(),
		Version: t.Version,
		At:      t.At,
	}
	if t.DriverID != nil {
		push.DriverID = t.DriverID.String()
	}
	n.hub.Publish(ctx, OrderRoom(o.ID()), EventOrderStatus, push)

	if t.To == order.AssignedToDelivery && t.DriverID != nil {
		shipping := o.Shipping()
		n.hub.Publish(ctx, DriverRoom(*t.DriverID), EventOrderAssigned, AssignmentPush{
			OrderID:  o.ID().String(),
			Code:     o.Code().String(),
			BranchID: o.BranchID().String(),
			Total:    o.Total(),
			Address:  shipping.Address(),
			City:     shipping.City(),
			Phone:    shipping.Phone(),
			Notes:    shipping.Notes(),
			Items:    itemViews(o),
		})
		n.attachDriver(*t.DriverID, o.ID())
	}

	if t.To.IsTerminal() && t.DriverID != nil {
		n.detachDriver(*t.DriverID, o.ID())
	}
}

// attachDriver lets the driver's local sessions broadcast into the order room
// and receive its status pushes.
func (n *Notifier) attachDriver(driverID, orderID kernel.UUID) {
	for _, s := range n.hub.sessionsIn(DriverRoom(driverID)) {
		if n.hub.Join(s, OrderRoom(orderID)) {
			s.addDelivery(orderID)
		}
	}
}

func (n *Notifier) detachDriver(driverID, orderID kernel.UUID) {
	for _, s := range n.hub.sessionsIn(DriverRoom(driverID)) {
		s.dropDelivery(orderID)
		n.hub.Leave(s, OrderRoom(orderID))
	}
}
