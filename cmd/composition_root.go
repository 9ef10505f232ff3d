package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/realtime"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/chatrepo"
	"fulfillment/internal/adapters/out/redisbus"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/auth"
	"fulfillment/internal/pkg/keylock"
	"fulfillment/internal/pkg/ratelimit"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	producerName   = "fulfillment"
	redisKeyPrefix = "fulfillment:"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	locks      *keylock.Locker
	verifier   *auth.Verifier
	logger     *slog.Logger

	redis     *redis.Client
	publisher *kafka.OrderEventPublisher
	hub       *realtime.Hub
	directory realtime.Directory
	limiter   realtime.Limiter
	sweeper   *ratelimit.SlidingWindow
	notifier  ports.OrderNotifiers
}

// NewCompositionRoot connects the optional redis and kafka back-ends. Without
// REDIS_ADDR the directory, limiter and room fan-out stay in-process.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	policy := inventory.AllowUnconstrained
	if config.InventoryStrict {
		policy = inventory.RejectMissing
	}

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, policy),
		locks:      keylock.New(),
		verifier:   auth.NewVerifier(config.JWTSecret),
		logger:     logger,
	}

	if config.RedisAddr != "" {
		client, err := redisbus.Connect(ctx, config.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.redis = client
		c.hub = realtime.NewHub(redisbus.NewBackplane(client, redisKeyPrefix+"room:", logger), logger)
		c.directory = redisbus.NewDirectory(client, redisKeyPrefix, redisbus.DefaultEntryTTL)
		c.limiter = ratelimit.NewRedisWindow(client, redisKeyPrefix+"ws:connect:", config.WSConnectWindow)
	} else {
		window := ratelimit.NewSlidingWindow(config.WSConnectWindow)
		c.hub = realtime.NewHub(nil, logger)
		c.directory = realtime.NewMemoryDirectory()
		c.limiter = window
		c.sweeper = window
	}

	c.notifier = ports.OrderNotifiers{realtime.NewNotifier(c.hub)}
	if len(config.KafkaBrokers) > 0 {
		writer := kafka.NewWriter(config.KafkaBrokers, config.KafkaOrderEventsTopic, logger)
		c.publisher = kafka.NewOrderEventPublisher(writer, producerName, logger)
		c.notifier = append(c.notifier, c.publisher)
	}

	return c, nil
}

func (c *CompositionRoot) Hub() *realtime.Hub {
	return c.hub
}

func (c *CompositionRoot) Verifier() *auth.Verifier {
	return c.verifier
}

// Close releases the kafka writer and the redis client.
func (c *CompositionRoot) Close() error {
	var problems []error
	if c.publisher != nil {
		problems = append(problems, c.publisher.Close())
	}
	if c.redis != nil {
		problems = append(problems, c.redis.Close())
	}
	return errors.Join(problems...)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var orders commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	var coupons commands.CouponUoWFactory = FuncCouponUoWFactory(func() commands.CouponUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(orders, coupons, c.notifier, order.RandomCodeGenerator(), c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderStatusCommandHandler() commands.TransitionOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderStatusCommandHandler(f, c.notifier, c.locks)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f, c.notifier, c.locks)
}

func (c *CompositionRoot) CreateDispatchReadyOrderCommandHandler() commands.DispatchReadyOrderCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchReadyOrderCommandHandler(f, c.notifier, c.locks)
}

func (c *CompositionRoot) CreateRecordHotDealSaleCommandHandler() commands.RecordHotDealSaleCommandHandler {
	var f commands.HotDealUoWFactory = FuncHotDealUoWFactory(func() commands.HotDealUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordHotDealSaleCommandHandler(f)
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) chatUoWFactory() commands.ChatUoWFactory {
	return FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateTrackOrderQueryHandler() queries.TrackOrderQueryHandler {
	return queries.NewTrackOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateConversationMessagesQueryHandler() queries.ConversationMessagesQueryHandler {
	return queries.NewConversationMessagesQueryHandler(chatrepo.NewGormConversationRepository(c.gormDB, untracked{}))
}

func (c *CompositionRoot) CreateGateway() *realtime.Gateway {
	chats := c.chatUoWFactory()
	drivers := c.driverUoWFactory()

	config := realtime.DefaultConfig()
	config.ConnectLimit = c.config.WSConnectLimit
	config.AuthMultiplier = c.config.WSAuthLimitMultiplier
	config.SnapshotInterval = c.config.DriverSnapshotInterval

	return realtime.NewGateway(
		c.hub,
		c.directory,
		c.verifier,
		c.limiter,
		realtime.Handlers{
			SetDriverAvailability: commands.NewSetDriverAvailabilityCommandHandler(drivers),
			RecordDriverPosition:  commands.NewRecordDriverPositionCommandHandler(drivers),
			OpenConversation:      commands.NewOpenConversationCommandHandler(chats),
			SendChatMessage:       commands.NewSendChatMessageCommandHandler(chats),
			AssignConversation:    commands.NewAssignConversationCommandHandler(chats),
			MarkMessagesRead:      commands.NewMarkMessagesReadCommandHandler(chats),
			CloseConversation:     commands.NewCloseConversationCommandHandler(chats),
			ConversationMessages:  c.CreateConversationMessagesQueryHandler(),
			DriverDelivery:        queries.NewDriverDeliveryQueryHandler(c.gormDB),
		},
		config,
		c.logger,
	)
}

func (c *CompositionRoot) CreateServer() (*httpadapter.Server, error) {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return nil, err
	}
	return httpadapter.NewServer(
		httpadapter.Handlers{
			CreateOrder:           c.CreateCreateOrderCommandHandler(),
			TransitionOrderStatus: c.CreateTransitionOrderStatusCommandHandler(),
			AssignDriver:          c.CreateAssignDriverCommandHandler(),
			RecordHotDealSale:     c.CreateRecordHotDealSaleCommandHandler(),
			TrackOrder:            c.CreateTrackOrderQueryHandler(),
			ListOrders:            c.CreateListOrdersQueryHandler(),
			ConversationMessages:  c.CreateConversationMessagesQueryHandler(),
		},
		sqlDB,
		c.verifier,
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var scheduled []jobs.Job
	if c.config.DispatchJobEnabled {
		scheduled = append(scheduled, jobs.NewDriverDispatchJob(c.CreateDispatchReadyOrderCommandHandler(), c.logger))
	}
	if c.sweeper != nil {
		scheduled = append(scheduled, jobs.NewRateLimitSweepJob(c.sweeper, c.logger))
	}
	return jobs.NewJobManager(scheduled...)
}

// untracked satisfies the repository tracker for read-only use.
type untracked struct{}

func (untracked) TrackAggregate(kernel.UUID, any) {}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCouponUoWFactory func() commands.CouponUoW

func (f FuncCouponUoWFactory) Create() commands.CouponUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncChatUoWFactory func() commands.ChatUoW

func (f FuncChatUoWFactory) Create() commands.ChatUoW {
	return f()
}

type FuncHotDealUoWFactory func() commands.HotDealUoW

func (f FuncHotDealUoWFactory) Create() commands.HotDealUoW {
	return f()
}
