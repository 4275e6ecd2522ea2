package cmd

import (
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CompositionRoot wires adapters into command and query handlers.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	resolver   *services.CoordinateResolver
	artifacts  ports.ArtifactStore
	publisher  ports.OrderStatusPublisher
}

// NewCompositionRoot builds the root over the shared database connection
// and adapters. publisher may be nil when no broker is configured.
func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	catalogs services.StoreCatalogs,
	artifacts ports.ArtifactStore,
	publisher ports.OrderStatusPublisher,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		resolver:   services.NewCoordinateResolver(catalogs),
		artifacts:  artifacts,
		publisher:  publisher,
	}
}

// UnitOfWorkFactory exposes the shared factory for background jobs.
func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return &c.uowFactory
}

// Artifacts exposes the artifact store for the HTTP retrieval route.
func (c *CompositionRoot) Artifacts() ports.ArtifactStore {
	return c.artifacts
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) identityUoWFactory() commands.IdentityUoWFactory {
	return FuncIdentityUoWFactory(func() commands.IdentityUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateLoginCommandHandler() commands.LoginCommandHandler {
	return commands.NewLoginCommandHandler(c.identityUoWFactory())
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateStartFulfillmentCommandHandler() commands.StartFulfillmentCommandHandler {
	return commands.NewStartFulfillmentCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkPaidCommandHandler() commands.MarkPaidCommandHandler {
	return commands.NewMarkPaidCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.orderUoWFactory(), c.artifacts, c.publisher)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetDriverOrdersQueryHandler() queries.GetDriverOrdersQueryHandler {
	return queries.NewGetDriverOrdersQueryHandler(c.gormDB, c.resolver)
}

func (c *CompositionRoot) CreateGetPendingReviewOrdersQueryHandler() queries.GetPendingReviewOrdersQueryHandler {
	return queries.NewGetPendingReviewOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateVerifyTokenQueryHandler() queries.VerifyTokenQueryHandler {
	return queries.NewVerifyTokenQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderPodQueryHandler() queries.GetOrderPodQueryHandler {
	return queries.NewGetOrderPodQueryHandler(c.gormDB, c.artifacts)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncIdentityUoWFactory func() commands.IdentityUoW

func (f FuncIdentityUoWFactory) Create() commands.IdentityUoW {
	return f()
}
