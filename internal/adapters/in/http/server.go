package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/auth"

	"github.com/labstack/echo/v4"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error)
	}
	TransitionOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderStatusCommand) (*order.Order, error)
	}
	AssignDriverHandler interface {
		Handle(ctx context.Context, cmd commands.AssignDriverCommand) (*order.Order, error)
	}
	RecordHotDealSaleHandler interface {
		Handle(ctx context.Context, cmd commands.RecordHotDealSaleCommand) (int64, error)
	}
	TrackOrderHandler interface {
		Handle(ctx context.Context, query queries.TrackOrderQuery) (queries.TrackOrderQueryResponse, error)
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error)
	}
	ConversationMessagesHandler interface {
		Handle(ctx context.Context, query queries.ConversationMessagesQuery) ([]chat.Message, error)
	}
	// HealthChecker is satisfied by *sql.DB.
	HealthChecker interface {
		PingContext(ctx context.Context) error
	}
)

// Handlers are the use cases the REST API exposes.
type Handlers struct {
	// Command handlers
	CreateOrder           CreateOrderHandler
	TransitionOrderStatus TransitionOrderStatusHandler
	AssignDriver          AssignDriverHandler
	RecordHotDealSale     RecordHotDealSaleHandler

	// Query handlers
	TrackOrder           TrackOrderHandler
	ListOrders           ListOrdersHandler
	ConversationMessages ConversationMessagesHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	health   HealthChecker
	verifier *auth.Verifier
	logger   *slog.Logger
}

func NewServer(handlers Handlers, health HealthChecker, verifier *auth.Verifier, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		health:   health,
		verifier: verifier,
		logger:   logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts the REST API and, when given, the websocket endpoint.
func (s *Server) RegisterRoutes(e *echo.Echo, socket echo.HandlerFunc) {
	e.GET("/health", s.Health)
	if socket != nil {
		e.GET("/ws", socket)
	}

	authenticate := Authenticate(s.verifier)
	orders := e.Group("/orders", authenticate)
	orders.POST("", s.CreateOrder)
	orders.GET("/track/:code", s.TrackOrder)
	orders.GET("", s.ListOrders, RequireRoles(auth.RoleAdmin, auth.RoleDistributor, auth.RoleAgent, auth.RoleCustomer))
	orders.PUT("/:id/status", s.TransitionOrderStatus, RequireRoles())
	orders.PUT("/:id/assign", s.AssignDriver, RequireRoles(auth.ElevatedRoles...))

	e.POST("/hot-deals/:id/sold", s.RecordHotDealSale, authenticate, RequireRoles())
	e.GET("/conversations/:id/messages", s.ConversationMessages, authenticate, RequireRoles())
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	if s.health != nil {
		if err := s.health.PingContext(ctx.Request().Context()); err != nil {
			s.logger.ErrorContext(ctx.Request().Context(), "Health check failed", "error", err)
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
