package cmd

import (
	"log/slog"
	"time"

	amqpout "hatid/internal/adapters/out/amqp"
	"hatid/internal/adapters/out/directory"
	"hatid/internal/adapters/out/postgres"
	"hatid/internal/adapters/out/postgres/orderrepo"
	"hatid/internal/adapters/out/postgres/restaurantrepo"
	"hatid/internal/core/application/usecases/commands"
	"hatid/internal/core/application/usecases/queries"
	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/sla"
	"hatid/internal/core/domain/services"
	"hatid/internal/core/ports"
	"hatid/internal/statuswatch"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use-case handlers.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	watcher    *statuswatch.Watcher
	publisher  ports.NotificationPublisher
	admins     ports.AdminDirectory
	catalog    sla.Catalog
	logger     *slog.Logger
}

// NewCompositionRoot builds the root from established infrastructure handles.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	amqpConn amqpout.Connection,
	logger *slog.Logger,
) (CompositionRoot, error) {
	admins, err := directory.NewStaticAdminDirectory(config.AdminContacts)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		watcher:    statuswatch.NewWatcher(),
		publisher:  amqpout.NewPublisher(amqpConn),
		admins:     admins,
		catalog:    sla.DefaultCatalog(),
		logger:     logger,
	}, nil
}

// Watcher exposes the in-process status broker for transport wiring.
func (c *CompositionRoot) Watcher() *statuswatch.Watcher {
	return c.watcher
}

// OrderRepository builds a repository outside any unit of work, for readers
// and orchestrators that manage their own transactions per write.
func (c *CompositionRoot) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(c.gormDB, noopAggregateTracker{})
}

func (c *CompositionRoot) assignmentConfig() commands.AssignmentConfig {
	cfg := commands.DefaultAssignmentConfig()
	if c.config.AssignmentGracePeriod > 0 {
		cfg.GracePeriod = c.config.AssignmentGracePeriod
	}
	if c.config.CandidateTimeout > 0 {
		cfg.CandidateTimeout = c.config.CandidateTimeout
	}
	if c.config.AssignmentPollEvery > 0 {
		cfg.PollInterval = c.config.AssignmentPollEvery
	}
	if c.config.EscalationWait > 0 {
		cfg.EscalationWait = c.config.EscalationWait
	}
	if c.config.MaxCandidates > 0 {
		cfg.MaxCandidates = c.config.MaxCandidates
	}
	return cfg
}

func (c *CompositionRoot) correctiveConfig() commands.CorrectiveConfig {
	cfg := commands.DefaultCorrectiveConfig()
	if c.config.RiderIncentiveStep > 0 {
		cfg.RiderIncentiveStep = c.config.RiderIncentiveStep
	}
	if c.config.CompensationAmount > 0 {
		cfg.CompensationAmount = c.config.CompensationAmount
	}
	return cfg
}

// AssignmentGracePeriod returns the effective post-placement grace period.
func (c *CompositionRoot) AssignmentGracePeriod() time.Duration {
	return c.assignmentConfig().GracePeriod
}

func (c *CompositionRoot) CreateProcessOrderPlacementCommandHandler() commands.ProcessOrderPlacementCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessOrderPlacementCommandHandler(
		f,
		services.NewOrderValidator(),
		services.NewPricingAdjuster(c.catalog),
		c.catalog,
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) CreateAssignRestaurantCommandHandler() *commands.AssignRestaurantCommandHandler {
	handler := commands.NewAssignRestaurantCommandHandler(
		c.OrderRepository(),
		restaurantrepo.NewGormRestaurantRepository(c.gormDB),
		c.publisher,
		c.admins,
		c.watcher,
		c.assignmentConfig(),
		c.logger,
	)
	return &handler
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.watcher, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRunSLAChecksCommandHandler() commands.RunSLAChecksCommandHandler {
	var orderUoWs commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	dispatcher := commands.NewCorrectiveActionDispatcher(
		orderUoWs, c.publisher, c.admins, c.correctiveConfig(), c.logger)

	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunSLAChecksCommandHandler(
		f, c.catalog, &dispatcher, c.publisher, c.admins, c.logger)
}

func (c *CompositionRoot) CreateGetUnassignedOrdersQueryHandler() queries.GetUnassignedOrdersQueryHandler {
	return queries.NewGetUnassignedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSLABreachesQueryHandler() queries.GetSLABreachesQueryHandler {
	return queries.NewGetSLABreachesQueryHandler(c.gormDB)
}

// noopAggregateTracker satisfies the repository tracker for repositories
// used outside a unit of work, where each write commits on its own.
type noopAggregateTracker struct{}

func (noopAggregateTracker) TrackAggregate(kernel.UUID, any) {}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
