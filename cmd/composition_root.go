package cmd

import (
	"context"
	"log/slog"
	"net/http"

	httpin "gasdelivery/internal/adapters/in/http"
	"gasdelivery/internal/adapters/out/payment"
	"gasdelivery/internal/adapters/out/postgres"
	"gasdelivery/internal/adapters/out/postgres/orderrepo"
	"gasdelivery/internal/adapters/out/postgres/personrepo"
	"gasdelivery/internal/adapters/out/redis"
	"gasdelivery/internal/core/application/mirror"
	"gasdelivery/internal/core/application/usecases/commands"
	"gasdelivery/internal/core/application/usecases/queries"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/services"
	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	redis      goredis.UniversalClient
	logger     *slog.Logger

	calculator services.PriceCalculator
	effects    commands.Effects
	assign     *commands.AssignDriverCommandHandler

	mirror *mirror.Service
	pusher *mirror.AsyncPusher
	jobs   *jobs.JobManager
}

// NewCompositionRoot wires the application over already opened infrastructure. publisher and table
// are chosen by the caller so that Kafka and Sheets stay optional.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	redisClient goredis.UniversalClient,
	publisher ports.EventPublisher,
	table ports.MirrorTable,
	logger *slog.Logger,
) *CompositionRoot {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		redis:      redisClient,
		logger:     logger,
		calculator: services.NewPriceCalculator(services.Tariff{
			DeliveryCharge:     cfg.DeliveryCharge,
			UrgentFee:          cfg.UrgentFee,
			DepositPerCylinder: cfg.DepositPerCylinder,
		}),
	}

	c.mirror = mirror.NewService(
		table,
		personrepo.NewGormPersonDirectory(gormDB),
		orderrepo.NewGormOrderRepository(gormDB),
		mirror.PaymentClearerFunc(c.clearFromSheet),
		logger,
	)
	c.pusher = mirror.NewAsyncPusher(c.mirror, cfg.MirrorQueueSize, logger)
	c.effects = commands.NewEffects(publisher, c.pusher, logger)

	assign := commands.NewAssignDriverCommandHandler(c.uowFactoryAll(), c.effects)
	c.assign = &assign

	assignPending := c.CreateAssignPendingOrdersCommandHandler()
	c.jobs = jobs.NewJobManager(
		jobs.NewDriverAssignmentJob(&assignPending, cfg.DispatchSpec, cfg.DispatchBatch, logger),
		jobs.NewMirrorHeartbeatJob(c.mirror, redis.NewSyncLock(redisClient, logger),
			cfg.MirrorHeartbeatSpec, cfg.MirrorHeartbeatTimeout, logger),
	)
	return c
}

// Start runs the mirror pusher and the scheduled jobs. The pusher drains when ctx is cancelled.
func (c *CompositionRoot) Start(ctx context.Context) error {
	c.pusher.Start(ctx)
	return c.jobs.StartAll()
}

// Stop waits for running jobs and for the pusher, whose context the caller has cancelled.
func (c *CompositionRoot) Stop() {
	c.jobs.StopAll()
	c.pusher.Wait()
}

// clearFromSheet settles an entry that finance staff marked completed in the sheet.
func (c *CompositionRoot) clearFromSheet(
	ctx context.Context,
	timelineID kernel.UUID,
	referenceID, notes, processedBy string,
) error {
	cmd, err := commands.NewClearPaymentCommand(timelineID, referenceID, notes, processedBy)
	if err != nil {
		return err
	}
	h := c.CreateClearPaymentCommandHandler()
	_, err = h.Handle(ctx, cmd)
	return err
}

func (c *CompositionRoot) uowFactoryAll() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var gateway *payment.GatewayClient
	if c.cfg.PaymentGatewayURL != "" {
		gateway = payment.NewGatewayClient(c.cfg.PaymentGatewayURL, http.DefaultClient)
	}
	return commands.NewCreateOrderCommandHandler(
		c.uowFactoryAll(),
		c.calculator,
		payment.NewAuthorizer(gateway),
		redis.NewIdempotencyStore(c.redis),
		c.assign,
		c.effects,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRequestRefillCommandHandler() commands.RequestRefillCommandHandler {
	return commands.NewRequestRefillCommandHandler(c.uowFactoryAll(), c.calculator, c.assign, c.effects, c.logger)
}

func (c *CompositionRoot) CreateRequestReturnCommandHandler() commands.RequestReturnCommandHandler {
	return commands.NewRequestReturnCommandHandler(c.uowFactoryAll(), c.assign, c.effects, c.logger)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.uowFactoryAll(), c.effects)
}

func (c *CompositionRoot) CreateGenerateQRCommandHandler() commands.GenerateQRCommandHandler {
	return commands.NewGenerateQRCommandHandler(c.orderUoWFactory(), c.effects)
}

func (c *CompositionRoot) CreateScanQRCommandHandler() commands.ScanQRCommandHandler {
	return commands.NewScanQRCommandHandler(c.uowFactoryAll(), c.effects)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.uowFactoryAll(), c.effects)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uowFactoryAll(), c.effects)
}

func (c *CompositionRoot) CreateMarkReturnedCommandHandler() commands.MarkReturnedCommandHandler {
	return commands.NewMarkReturnedCommandHandler(c.uowFactoryAll(), c.effects)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return *c.assign
}

func (c *CompositionRoot) CreateAssignPendingOrdersCommandHandler() commands.AssignPendingOrdersCommandHandler {
	return commands.NewAssignPendingOrdersCommandHandler(c.uowFactoryAll(), *c.assign, c.logger)
}

func (c *CompositionRoot) CreateClearPaymentCommandHandler() commands.ClearPaymentCommandHandler {
	return commands.NewClearPaymentCommandHandler(c.orderUoWFactory(), c.effects)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPaymentsQueryHandler() queries.ListPaymentsQueryHandler {
	return queries.NewListPaymentsQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the REST adapter with every handler it serves.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:   c.CreateCreateOrderCommandHandler(),
		RequestRefill: c.CreateRequestRefillCommandHandler(),
		RequestReturn: c.CreateRequestReturnCommandHandler(),
		AcceptOrder:   c.CreateAcceptOrderCommandHandler(),
		GenerateQR:    c.CreateGenerateQRCommandHandler(),
		ScanQR:        c.CreateScanQRCommandHandler(),
		CompleteOrder: c.CreateCompleteOrderCommandHandler(),
		CancelOrder:   c.CreateCancelOrderCommandHandler(),
		MarkReturned:  c.CreateMarkReturnedCommandHandler(),
		AssignDriver:  c.CreateAssignDriverCommandHandler(),
		ClearPayment:  c.CreateClearPaymentCommandHandler(),
		GetOrder:      c.CreateGetOrderQueryHandler(),
		ListPayments:  c.CreateListPaymentsQueryHandler(),
	}, c.mirror, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
