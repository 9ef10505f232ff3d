// Package realtime is the websocket gateway: a room based publish/subscribe
// channel for driver positions, order status pushes, branch broadcasts and
// the support chat.
package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/auth"
	"fulfillment/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const cleanupTimeout = 5 * time.Second

// errSessionClosed ends an event whose session closed while it was handled.
var errSessionClosed = errors.New("session closed")

// Limiter throttles connection attempts per key.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int) (bool, error)
}

type (
	DriverAvailabilityHandler interface {
		Handle(ctx context.Context, cmd commands.SetDriverAvailabilityCommand) error
	}
	DriverPositionHandler interface {
		Handle(ctx context.Context, cmd commands.RecordDriverPositionCommand) error
	}
	OpenConversationHandler interface {
		Handle(ctx context.Context, cmd commands.OpenConversationCommand) (*chat.Conversation, bool, error)
	}
	SendChatMessageHandler interface {
		Handle(ctx context.Context, cmd commands.SendChatMessageCommand) (chat.Message, error)
	}
	AssignConversationHandler interface {
		Handle(ctx context.Context, cmd commands.AssignConversationCommand) (*chat.Conversation, error)
	}
	MarkMessagesReadHandler interface {
		Handle(ctx context.Context, cmd commands.MarkMessagesReadCommand) (int64, error)
	}
	CloseConversationHandler interface {
		Handle(ctx context.Context, cmd commands.CloseConversationCommand) (*chat.Conversation, error)
	}
	ConversationMessagesHandler interface {
		Handle(ctx context.Context, query queries.ConversationMessagesQuery) ([]chat.Message, error)
	}
	DriverDeliveryHandler interface {
		Handle(ctx context.Context, query queries.DriverDeliveryQuery) (bool, error)
	}
)

// Handlers are the use cases the gateway drives.
type Handlers struct {
	SetDriverAvailability DriverAvailabilityHandler
	RecordDriverPosition  DriverPositionHandler
	OpenConversation      OpenConversationHandler
	SendChatMessage       SendChatMessageHandler
	AssignConversation    AssignConversationHandler
	MarkMessagesRead      MarkMessagesReadHandler
	CloseConversation     CloseConversationHandler
	ConversationMessages  ConversationMessagesHandler
	DriverDelivery        DriverDeliveryHandler
}

// Config tunes the handshake guard and the driver snapshot throttle.
type Config struct {
	// ConnectLimit is the number of connection attempts per IP per window.
	ConnectLimit int
	// AuthMultiplier scales ConnectLimit for sessions with a valid token.
	AuthMultiplier int
	// SnapshotInterval is the minimum time between two stored positions of one driver.
	SnapshotInterval time.Duration
	CheckOrigin      func(r *http.Request) bool
}

func DefaultConfig() Config {
	return Config{
		ConnectLimit:     10,
		AuthMultiplier:   3,
		SnapshotInterval: 30 * time.Second,
	}
}

// Gateway authenticates connections and routes their events.
type Gateway struct {
	hub       *Hub
	directory Directory
	verifier  *auth.Verifier
	limiter   Limiter
	handlers  Handlers
	config    Config
	upgrader  websocket.Upgrader
	snapshots *snapshotThrottle
	logger    *slog.Logger
	now       func() time.Time

	routes map[string]eventHandler
}

type eventHandler func(ctx context.Context, s *Session, in Inbound) (any, error)

func NewGateway(
	hub *Hub,
	directory Directory,
	verifier *auth.Verifier,
	limiter Limiter,
	handlers Handlers,
	config Config,
	logger *slog.Logger,
) *Gateway {
	g := &Gateway{
		hub:       hub,
		directory: directory,
		verifier:  verifier,
		limiter:   limiter,
		handlers:  handlers,
		config:    config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		snapshots: newSnapshotThrottle(config.SnapshotInterval),
		logger:    logger.With("component", "realtime_gateway"),
		now:       time.Now,
	}

	g.routes = map[string]eventHandler{
		EventDriverJoin:       g.driverJoin,
		EventDriverLocation:   g.driverLocation,
		EventOrderTrack:       g.orderTrack,
		EventOrderUntrack:     g.orderUntrack,
		EventDistributorJoin:  g.distributorJoin,
		EventChatCustomerJoin: g.chatCustomerJoin,
		EventChatAgentJoin:    g.chatAgentJoin,
		EventChatOpen:         g.chatOpen,
		EventChatMessageSend:  g.chatMessageSend,
		EventChatTypingStart:  g.chatTyping(true),
		EventChatTypingStop:   g.chatTyping(false),
		EventChatAssign:       g.chatAssign,
		EventChatMarkRead:     g.chatMarkRead,
		EventChatClose:        g.chatClose,
	}

	return g
}

// Handle is the echo endpoint that upgrades to a websocket.
func (g *Gateway) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	s, err := g.Accept(ctx, c.Request(), c.RealIP())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errs.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		return c.JSON(status, errorData{Code: errs.CodeOf(err), Message: err.Error()})
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		g.logger.WarnContext(ctx, "Websocket upgrade failed", "ip", s.remoteIP, "error", err)
		return nil
	}

	// the request context ends with the handler, the session outlives it
	s.Serve(context.WithoutCancel(ctx), conn, func(ctx context.Context, raw []byte) {
		g.Dispatch(ctx, s, raw)
	})
	return nil
}

// Accept runs the handshake guard and creates the session. An absent or
// invalid token yields a guest session. Exceeding the per-IP budget fails with
// errs.ErrRateLimited.
func (g *Gateway) Accept(ctx context.Context, r *http.Request, remoteIP string) (*Session, error) {
	var identity *auth.Identity
	if token := auth.TokenFromRequest(r); token != "" {
		verified, err := g.verifier.Verify(token)
		if err != nil {
			g.logger.DebugContext(ctx, "Invalid socket token, continuing as guest", "ip", remoteIP, "error", err)
		} else {
			identity = &verified
		}
	}

	limit := g.config.ConnectLimit
	if identity != nil && g.config.AuthMultiplier > 1 {
		limit *= g.config.AuthMultiplier
	}

	allowed, err := g.limiter.Allow(ctx, remoteIP, limit)
	if err != nil {
		g.logger.WarnContext(ctx, "Rate limiter unavailable, admitting connection", "ip", remoteIP, "error", err)
		allowed = true
	}
	if !allowed {
		return nil, errs.ErrRateLimited
	}

	s := NewSession(identity, remoteIP)
	s.OnClose(func() { g.cleanup(s) })
	return s, nil
}

// Dispatch routes one inbound frame and answers with an ack or an error frame.
// A failing event never closes the session. Frames arriving after the session
// closed are dropped.
func (g *Gateway) Dispatch(ctx context.Context, s *Session, raw []byte) {
	if s.IsClosed() {
		return
	}

	in, err := decodeInbound(raw)
	if err != nil {
		g.reply(ctx, s, errorFrame("", err))
		return
	}

	route, ok := g.routes[in.Event]
	if !ok {
		g.reply(ctx, s, errorFrame(in.Event, errs.NewValueIsInvalidErrorWithCause("event", errors.New("unknown event "+in.Event))))
		return
	}

	if s.IsGuest() && in.Event != EventOrderTrack && in.Event != EventOrderUntrack {
		g.reply(ctx, s, errorFrame(in.Event, errs.ErrAuthRequired))
		return
	}

	data, err := route(ctx, s, in)
	if errors.Is(err, errSessionClosed) {
		return
	}
	if err != nil {
		if errs.CodeOf(err) == errs.CodeInternal {
			g.logger.ErrorContext(ctx, "Event failed", "event", in.Event, "session", s.ID(), "error", err)
		}
		g.reply(ctx, s, errorFrame(in.Event, err))
		return
	}
	g.reply(ctx, s, ackFrame(in.Event, data))
}

func (g *Gateway) reply(ctx context.Context, s *Session, frame Outbound) {
	if err := s.Send(frame); err != nil {
		g.logger.ErrorContext(ctx, "Failed to encode reply", "session", s.ID(), "error", err)
	}
}

// cleanup runs once per session on disconnect.
func (g *Gateway) cleanup(s *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	g.hub.LeaveAll(s)

	driverID := s.DriverID()
	if driverID == nil {
		return
	}

	removed, err := g.directory.Remove(ctx, *driverID, s.ID())
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to remove driver from directory", "driverId", driverID.String(), "error", err)
	}
	if !removed {
		// a newer session owns the driver
		return
	}
	g.snapshots.forget(*driverID)

	cmd, err := commands.NewSetDriverAvailabilityCommand(*driverID, false)
	if err == nil {
		err = g.handlers.SetDriverAvailability.Handle(ctx, cmd)
	}
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to mark driver unavailable", "driverId", driverID.String(), "error", err)
	}
}

func requireRole(s *Session, roles ...auth.Role) (auth.Identity, error) {
	identity, ok := s.Identity()
	if !ok {
		return auth.Identity{}, errs.ErrAuthRequired
	}
	if !identity.HasRole(roles...) {
		return auth.Identity{}, errs.ErrUnauthorized
	}
	return identity, nil
}

// snapshotThrottle lets one position per driver through per interval.
type snapshotThrottle struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[kernel.UUID]time.Time
}

func newSnapshotThrottle(interval time.Duration) *snapshotThrottle {
	return &snapshotThrottle{interval: interval, last: make(map[kernel.UUID]time.Time)}
}

func (t *snapshotThrottle) allow(driverID kernel.UUID, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.last[driverID]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.last[driverID] = now
	return true
}

func (t *snapshotThrottle) forget(driverID kernel.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, driverID)
}
