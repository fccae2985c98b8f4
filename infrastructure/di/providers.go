package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"wikiracer/application/commands"
	"wikiracer/application/commands/bus"
	commands_handlers "wikiracer/application/commands/handlers"
	"wikiracer/application/ports"
	"wikiracer/application/queries"
	querybus "wikiracer/application/queries/bus"
	queries_handlers "wikiracer/application/queries/handlers"
	"wikiracer/application/services"
	domainconfig "wikiracer/domain/config"
	"wikiracer/domain/events"
	"wikiracer/infrastructure/config"
	"wikiracer/infrastructure/messaging/eventbridge"
	"wikiracer/infrastructure/persistence/dynamodb"
	"wikiracer/infrastructure/persistence/memory"
	"wikiracer/infrastructure/wiki"
	"wikiracer/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideDomainConfig derives the domain constraints from the environment
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.DomainConfig()
}

// ProvidePageStore selects the record store implementation from configuration
func ProvidePageStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PageRecordStore {
	if cfg.StoreDriver == "memory" {
		logger.Info("Using in-memory page record store")
		return memory.NewPageStore(logger)
	}
	return dynamodb.NewPageRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideTitleLocker selects the per-title locker matching the store driver
func ProvideTitleLocker(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.TitleLocker {
	if cfg.StoreDriver == "memory" {
		return memory.NewTitleLocker()
	}
	return dynamodb.NewTitleLocker(client, cfg.DynamoDBTable, logger)
}

// ProvideLinkProvider creates the remote link source client
func ProvideLinkProvider(cfg *config.Config, dcfg *domainconfig.DomainConfig, logger *zap.Logger) ports.LinkProvider {
	return wiki.NewClient(cfg.WikiAPIURL, dcfg.ProviderTimeout, logger)
}

// ProvideEventPublisher creates the domain event publisher. The memory
// driver runs without a bus, so events are discarded there.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.StoreDriver == "memory" {
		return &discardPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// discardPublisher drops events for bus-less environments
type discardPublisher struct{}

func (d *discardPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return nil
}

func (d *discardPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	return nil
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("Wikiracer/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil)
	}
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates a tracer instance
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("wikiracer")
}

// ProvidePageValidator creates the page validation service
func ProvidePageValidator(provider ports.LinkProvider, dcfg *domainconfig.DomainConfig, logger *zap.Logger) *services.PageValidator {
	return services.NewPageValidator(provider, dcfg, logger)
}

// ProvidePrewarmHandler creates the prewarm command handler
func ProvidePrewarmHandler(
	validator *services.PageValidator,
	store ports.PageRecordStore,
	provider ports.LinkProvider,
	locker ports.TitleLocker,
	publisher ports.EventPublisher,
	dcfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commands_handlers.PrewarmPageHandler {
	return commands_handlers.NewPrewarmPageHandler(validator, store, provider, locker, publisher, dcfg, logger)
}

// ProvideCleanupHandler creates the TTL sweep command handler
func ProvideCleanupHandler(
	store ports.PageRecordStore,
	metrics *observability.Metrics,
	dcfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commands_handlers.CleanupExpiredPagesHandler {
	return commands_handlers.NewCleanupExpiredPagesHandler(store, metrics, dcfg, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	prewarmHandler *commands_handlers.PrewarmPageHandler,
	cleanupHandler *commands_handlers.CleanupExpiredPagesHandler,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	commandBus.Register(commands.PrewarmPageCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			prewarmCmd, ok := cmd.(commands.PrewarmPageCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return prewarmHandler.Handle(ctx, prewarmCmd)
		},
	})

	commandBus.Register(commands.CleanupExpiredPagesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			cleanupCmd, ok := cmd.(commands.CleanupExpiredPagesCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := cleanupHandler.Handle(ctx, cleanupCmd)
			return err
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// getPageCacheTTL is the TTL in seconds for cached point lookups
const getPageCacheTTL = 60

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	validator *services.PageValidator,
	store ports.PageRecordStore,
	provider ports.LinkProvider,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	dcfg *domainconfig.DomainConfig,
	cache ports.Cache,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	// Race results are never cached at this layer: the record store is the
	// cache, and a race must observe fills committed mid-flight.
	findPathHandler := queries_handlers.NewFindPathHandler(validator, store, provider, publisher, metrics, dcfg, logger)
	queryBus.Register(queries.FindPathQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			findQuery, ok := query.(queries.FindPathQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return findPathHandler.Handle(ctx, findQuery)
		},
	})

	getPageHandler := queries_handlers.NewGetPageHandler(store, logger)
	caching := querybus.NewCachingMiddleware(cache, getPageCacheTTL)
	queryBus.Register(queries.GetPageQuery{}, caching.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetPageQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getPageHandler.Handle(ctx, getQuery)
		},
	}))

	return queryBus
}

// ProvideInMemoryCache creates a simple in-memory cache
// In production, this would be Redis or similar
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}
