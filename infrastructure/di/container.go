package di

import (
	"yaplog-backend/application/commands/bus"
	commands_handlers "yaplog-backend/application/commands/handlers"
	"yaplog-backend/application/ports"
	querybus "yaplog-backend/application/queries/bus"
	"yaplog-backend/application/services"
	"yaplog-backend/infrastructure/config"
	"yaplog-backend/infrastructure/scheduler"
	"yaplog-backend/pkg/auth"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	MemoryRepo      ports.MemoryRepository
	UserRepo        ports.UserRepository
	Mailer          ports.Mailer
	RecordHandler   *commands_handlers.RecordMemoryHandler
	ProcessHandler  *commands_handlers.ProcessMemoriesHandler
	AccountService  *services.AccountService
	CommandBus      *bus.CommandBus
	QueryBus        *querybus.QueryBus
	JWTValidator    *auth.JWTValidator
	JWTGenerator    *auth.JWTGenerator
	DigestScheduler *scheduler.DigestScheduler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideMemoryRepository,
	ProvideUserRepository,
	ProvideMailer,
	ProvideJWTValidator,
	ProvideJWTGenerator,
	ProvideAccountService,
	ProvideRecordMemoryHandler,
	ProvideProcessMemoriesHandler,
	ProvideCommandBus,
	ProvideTimeline,
	ProvideQueryBus,
	ProvideDigestScheduler,
	wire.Struct(new(Container), "*"),
)
