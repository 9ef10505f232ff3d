package realtime

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/auth"
	"fulfillment/internal/pkg/errs"
)

type driverJoinData struct {
	DriverID string `json:"driverId"`
}

type driverLocationData struct {
	DriverID string   `json:"driverId"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	OrderID  string   `json:"orderId,omitempty"`
}

type orderRoomData struct {
	OrderID string `json:"orderId"`
}

type branchData struct {
	BranchID string `json:"branchId"`
}

// LocationPush is published into an order room on every driver ping.
type LocationPush struct {
	DriverID string    `json:"driverId"`
	OrderID  string    `json:"orderId"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	At       time.Time `json:"at"`
}

func parseID(param, raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(param)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

// driverJoin binds the session to a driver. Only the driver or an elevated
// role may join as that driver.
func (g *Gateway) driverJoin(ctx context.Context, s *Session, in Inbound) (any, error) {
	data, err := decodeData[driverJoinData](in)
	if err != nil {
		return nil, err
	}
	driverID, err := parseID("driverId", data.DriverID)
	if err != nil {
		return nil, err
	}

	identity, _ := s.Identity()
	if !identity.UserID.IsEqual(driverID) && !identity.IsElevated() {
		return nil, fmt.Errorf("%w: cannot join as driver %s", errs.ErrUnauthorized, driverID)
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(driverID, true)
	if err != nil {
		return nil, err
	}
	if err = g.handlers.SetDriverAvailability.Handle(ctx, cmd); err != nil {
		return nil, err
	}

	if err = g.directory.Register(ctx, driverID, s.ID()); err != nil {
		return nil, err
	}
	s.setDriverID(driverID)
	g.hub.Join(s, DriverRoom(driverID))

	// Close may have run its cleanup before the driver id was set.
	if s.IsClosed() {
		g.cleanup(s)
		return nil, errSessionClosed
	}

	return map[string]string{"driverId": driverID.String(), "room": DriverRoom(driverID)}, nil
}

// driverLocation relays a ping into the room of an order the driver is
// delivering and stores a throttled snapshot. An invalid position is rejected
// without touching any state.
func (g *Gateway) driverLocation(ctx context.Context, s *Session, in Inbound) (any, error) {
	data, err := decodeData[driverLocationData](in)
	if err != nil {
		return nil, err
	}
	driverID, err := parseID("driverId", data.DriverID)
	if err != nil {
		return nil, err
	}
	if data.Lat == nil || data.Lng == nil {
		return nil, errs.NewValueIsRequiredError("lat/lng")
	}
	point, err := kernel.NewGeoPoint(*data.Lat, *data.Lng)
	if err != nil {
		return nil, err
	}
	var orderID *kernel.UUID
	if data.OrderID != "" {
		id, err := parseID("orderId", data.OrderID)
		if err != nil {
			return nil, err
		}
		orderID = &id
	}

	if err = g.requireRegisteredDriver(ctx, s, driverID); err != nil {
		return nil, err
	}
	if orderID != nil {
		if err = g.authorizeDelivery(ctx, s, driverID, *orderID); err != nil {
			return nil, err
		}
	}

	now := g.now().UTC()
	if err = g.directory.SetPosition(ctx, driverID, DriverPosition{Point: point, At: now}); err != nil {
		g.logger.WarnContext(ctx, "Failed to store live position", "driverId", driverID.String(), "error", err)
	}

	if orderID != nil {
		g.hub.PublishExcept(ctx, OrderRoom(*orderID), s, EventDriverLocation, LocationPush{
			DriverID: driverID.String(),
			OrderID:  orderID.String(),
			Lat:      point.Lat(),
			Lng:      point.Lng(),
			At:       now,
		})
	}

	if g.snapshots.allow(driverID, now) {
		g.snapshot(ctx, driverID, point, now)
	}

	return nil, nil
}

func (g *Gateway) requireRegisteredDriver(ctx context.Context, s *Session, driverID kernel.UUID) error {
	joined := s.DriverID()
	if joined == nil || !joined.IsEqual(driverID) {
		return fmt.Errorf("%w: session has not joined as driver %s", errs.ErrUnauthorized, driverID)
	}
	sessionID, ok, err := g.directory.Lookup(ctx, driverID)
	if err != nil {
		return err
	}
	if !ok || sessionID != s.ID() {
		return fmt.Errorf("%w: driver %s is registered to another session", errs.ErrUnauthorized, driverID)
	}
	return nil
}

// authorizeDelivery admits orderID into the session's deliveries once the
// order is out for delivery with this driver. The session then also follows
// the order room.
func (g *Gateway) authorizeDelivery(ctx context.Context, s *Session, driverID, orderID kernel.UUID) error {
	if s.hasDelivery(orderID) {
		return nil
	}

	query, err := queries.NewDriverDeliveryQuery(orderID, driverID)
	if err != nil {
		return err
	}
	assigned, err := g.handlers.DriverDelivery.Handle(ctx, query)
	if err != nil {
		return err
	}
	if !assigned {
		return fmt.Errorf("%w: order %s is not out for delivery with driver %s", errs.ErrUnauthorized, orderID, driverID)
	}

	if g.hub.Join(s, OrderRoom(orderID)) {
		s.addDelivery(orderID)
	}
	return nil
}

// snapshot is best-effort.
func (g *Gateway) snapshot(ctx context.Context, driverID kernel.UUID, point kernel.GeoPoint, at time.Time) {
	cmd, err := commands.NewRecordDriverPositionCommand(driverID, point, at)
	if err == nil {
		err = g.handlers.RecordDriverPosition.Handle(ctx, cmd)
	}
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to store driver snapshot", "driverId", driverID.String(), "error", err)
	}
}

// orderTrack joins the order room. Knowing the id grants only live deltas;
// order data itself is read through the tracking lookup.
func (g *Gateway) orderTrack(_ context.Context, s *Session, in Inbound) (any, error) {
	data, err := decodeData[orderRoomData](in)
	if err != nil {
		return nil, err
	}
	orderID, err := parseID("orderId", data.OrderID)
	if err != nil {
		return nil, err
	}
	g.hub.Join(s, OrderRoom(orderID))
	return map[string]string{"room": OrderRoom(orderID)}, nil
}

func (g *Gateway) orderUntrack(_ context.Context, s *Session, in Inbound) (any, error) {
	data, err := decodeData[orderRoomData](in)
	if err != nil {
		return nil, err
	}
	orderID, err := parseID("orderId", data.OrderID)
	if err != nil {
		return nil, err
	}
	g.hub.Leave(s, OrderRoom(orderID))
	return map[string]string{"room": OrderRoom(orderID)}, nil
}

func (g *Gateway) distributorJoin(_ context.Context, s *Session, in Inbound) (any, error) {
	if _, err := requireRole(s, auth.RoleDistributor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	data, err := decodeData[branchData](in)
	if err != nil {
		return nil, err
	}
	branchID, err := parseID("branchId", data.BranchID)
	if err != nil {
		return nil, err
	}
	g.hub.Join(s, BranchRoom(branchID))
	return map[string]string{"room": BranchRoom(branchID)}, nil
}
