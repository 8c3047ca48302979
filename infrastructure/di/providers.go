package di

import (
	"context"
	"fmt"
	"time"

	"yaplog-backend/application/commands"
	"yaplog-backend/application/commands/bus"
	commands_handlers "yaplog-backend/application/commands/handlers"
	"yaplog-backend/application/ports"
	"yaplog-backend/application/queries"
	querybus "yaplog-backend/application/queries/bus"
	queries_handlers "yaplog-backend/application/queries/handlers"
	"yaplog-backend/application/services"
	"yaplog-backend/domain/journal"
	"yaplog-backend/infrastructure/config"
	"yaplog-backend/infrastructure/email"
	"yaplog-backend/infrastructure/persistence/dynamodb"
	"yaplog-backend/infrastructure/scheduler"
	"yaplog-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
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

// ProvideMemoryRepository creates the journal entry repository
func ProvideMemoryRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MemoryRepository {
	return dynamodb.NewMemoryRepository(
		client,
		cfg.DynamoDBTable,
		cfg.IndexName, // GSI1 holds the unprocessed partition
		logger,
	)
}

// ProvideUserRepository creates the account repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(
		client,
		cfg.DynamoDBTable,
		cfg.IndexName,     // GSI1 resolves verification tokens
		cfg.GSI2IndexName, // GSI2 resolves reset tokens
		logger,
	)
}

// ProvideMailer creates the outgoing mail sender
func ProvideMailer(logger *zap.Logger) ports.Mailer {
	return email.NewLogMailer(logger)
}

// ProvideJWTValidator creates the token validator used by the API middleware
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideJWTGenerator creates the token generator used at login
func ProvideJWTGenerator(cfg *config.Config) (*auth.JWTGenerator, error) {
	return auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideAccountService creates the account service
func ProvideAccountService(
	userRepo ports.UserRepository,
	mailer ports.Mailer,
	tokens *auth.JWTGenerator,
	logger *zap.Logger,
) *services.AccountService {
	return services.NewAccountService(userRepo, mailer, tokens, logger)
}

// ProvideRecordMemoryHandler creates the ingestion handler
func ProvideRecordMemoryHandler(memoryRepo ports.MemoryRepository, logger *zap.Logger) *commands_handlers.RecordMemoryHandler {
	return commands_handlers.NewRecordMemoryHandler(memoryRepo, logger)
}

// ProvideProcessMemoriesHandler creates the digest batch handler
func ProvideProcessMemoriesHandler(memoryRepo ports.MemoryRepository, logger *zap.Logger) *commands_handlers.ProcessMemoriesHandler {
	return commands_handlers.NewProcessMemoriesHandler(memoryRepo, logger)
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
	recordHandler *commands_handlers.RecordMemoryHandler,
	processHandler *commands_handlers.ProcessMemoriesHandler,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()
	logged := bus.LoggingMiddleware(logger)

	commandBus.Register(commands.RecordMemoryCommand{}, logged(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			recordCmd, ok := cmd.(commands.RecordMemoryCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := recordHandler.Handle(ctx, recordCmd)
			return err
		},
	}))

	commandBus.Register(commands.ProcessMemoriesCommand{}, logged(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			processCmd, ok := cmd.(commands.ProcessMemoriesCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := processHandler.Handle(ctx, processCmd)
			return err
		},
	}))

	return commandBus
}

// ProvideTimeline creates the day grouping helper on the wall clock
func ProvideTimeline() *journal.Timeline {
	return journal.NewTimeline(nil)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	memoryRepo ports.MemoryRepository,
	timeline *journal.Timeline,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	queryBus.Register(queries.ListMemoriesQuery{}, queries_handlers.NewListMemoriesHandler(memoryRepo, logger))
	queryBus.Register(queries.GetTimelineQuery{}, queries_handlers.NewGetTimelineHandler(memoryRepo, timeline, logger))

	return queryBus
}

// ProvideDigestScheduler creates the periodic digest runner
func ProvideDigestScheduler(commandBus *bus.CommandBus, cfg *config.Config, logger *zap.Logger) *scheduler.DigestScheduler {
	return scheduler.NewDigestScheduler(
		commandBus,
		cfg.DigestSchedule,
		cfg.DigestBatchSize,
		time.Duration(cfg.DigestRunLimit)*time.Second,
		logger,
	)
}
