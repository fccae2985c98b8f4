//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"wikiracer/application/commands/bus"
	commands_handlers "wikiracer/application/commands/handlers"
	"wikiracer/application/ports"
	querybus "wikiracer/application/queries/bus"
	domainconfig "wikiracer/domain/config"
	"wikiracer/infrastructure/config"
	"wikiracer/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	DomainConfig   *domainconfig.DomainConfig
	Logger         *zap.Logger
	Store          ports.PageRecordStore
	Provider       ports.LinkProvider
	Locker         ports.TitleLocker
	Publisher      ports.EventPublisher
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Cache          ports.Cache
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
	CleanupHandler *commands_handlers.CleanupExpiredPagesHandler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideDomainConfig,
	ProvidePageStore,
	ProvideTitleLocker,
	ProvideLinkProvider,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvidePageValidator,
	ProvidePrewarmHandler,
	ProvideCleanupHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideInMemoryCache,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
