package bootstrap

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mlog"
	"github.com/fernbank/core/common/mmongo"
	"github.com/fernbank/core/common/mopentelemetry"
	"github.com/fernbank/core/common/mpostgres"
	"github.com/fernbank/core/common/mrabbitmq"
	"github.com/fernbank/core/common/mredis"
	"github.com/fernbank/core/common/mzap"
	"github.com/fernbank/core/common/net/http"
	"github.com/fernbank/core/internal/adapters/database/mongodb"
	"github.com/fernbank/core/internal/adapters/database/postgres"
	"github.com/fernbank/core/internal/adapters/external"
	"github.com/fernbank/core/internal/adapters/http/in"
	"github.com/fernbank/core/internal/adapters/idgen"
	"github.com/fernbank/core/internal/adapters/rabbitmq"
	"github.com/fernbank/core/internal/adapters/redis"
	"github.com/fernbank/core/internal/services/command"
	"github.com/fernbank/core/internal/services/query"
)

// Server represents the HTTP server for the core.
type Server struct {
	app           *fiber.App
	serverAddress string
	mlog.Logger
}

// ServerAddress is a convenience method to return the server address.
func (s *Server) ServerAddress() string {
	return s.serverAddress
}

// NewServer creates an instance of Server.
func NewServer(cfg *Config, app *fiber.App, logger mlog.Logger) *Server {
	return &Server{
		app:           app,
		serverAddress: cfg.ServerAddress,
		Logger:        logger,
	}
}

// Run runs the server. It satisfies common.App so it can be registered on a
// common.Launcher alongside the NEFT batch ticker (cmd/app/main.go).
func (s *Server) Run(l *common.Launcher) error {
	if err := s.app.Listen(s.ServerAddress()); err != nil {
		return errors.Wrap(err, "failed to run the server")
	}

	defer func() {
		if err := s.Logger.Sync(); err != nil {
			s.Logger.Fatalf("failed to sync logger: %s", err)
		}
	}()

	return nil
}

func setupPostgreSQLConnection(cfg *Config) *mpostgres.PostgresConnection {
	connStrPrimary := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.PrimaryDBHost, cfg.PrimaryDBUser, cfg.PrimaryDBPassword, cfg.PrimaryDBName, cfg.PrimaryDBPort)

	connStrReplica := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.ReplicaDBHost, cfg.ReplicaDBUser, cfg.ReplicaDBPassword, cfg.ReplicaDBName, cfg.ReplicaDBPort)

	return &mpostgres.PostgresConnection{
		ConnectionStringPrimary: connStrPrimary,
		ConnectionStringReplica: connStrReplica,
		PrimaryDBName:           cfg.PrimaryDBName,
		ReplicaDBName:           cfg.ReplicaDBName,
	}
}

func setupMongoDBConnection(cfg *Config) *mmongo.MongoConnection {
	connStrSource := fmt.Sprintf("mongodb://%s:%s@%s:%s",
		cfg.MongoDBUser, cfg.MongoDBPassword, cfg.MongoDBHost, cfg.MongoDBPort)

	return &mmongo.MongoConnection{
		ConnectionStringSource: connStrSource,
		Database:               cfg.MongoDBName,
	}
}

func setupRedisConnection(cfg *Config, logger mlog.Logger) *mredis.RedisConnection {
	return &mredis.RedisConnection{
		ConnectionStringSource: cfg.RedisConnectionString,
		Logger:                 logger,
	}
}

func setupRabbitMQConnection(cfg *Config, logger mlog.Logger) *mrabbitmq.RabbitMQConnection {
	connStrSource := fmt.Sprintf("amqp://%s:%s@%s:%s", cfg.RabbitMQUser, cfg.RabbitMQPass, cfg.RabbitMQHost, cfg.RabbitMQPortAMQP)

	return &mrabbitmq.RabbitMQConnection{
		ConnectionStringSource: connStrSource,
		Consumer:               cfg.RabbitMQConsumer,
		Producer:               cfg.RabbitMQProducer,
		Logger:                 logger,
	}
}

// InitServers builds every adapter, both use cases, the HTTP router, the
// Server that serves it, and the NEFT batch ticker, wiring them the way the
// teacher's (wire-generated) internal/gen/inject.go documents its dependency
// graph — but by direct construction, since this core does not generate
// wire_gen.go.
func InitServers() *Service {
	common.InitLocalEnvConfig()

	cfg := NewConfig()

	logger := mzap.InitializeLogger()

	telemetry := &mopentelemetry.Telemetry{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
	}
	telemetry.InitializeTelemetry()

	postgresConnection := setupPostgreSQLConnection(cfg)
	mongoConnection := setupMongoDBConnection(cfg)
	redisConnection := setupRedisConnection(cfg, logger)
	rabbitMQConnection := setupRabbitMQConnection(cfg, logger)

	accountRepo := postgres.NewAccountPostgreSQLRepository(postgresConnection)
	transactionRepo := postgres.NewTransactionPostgreSQLRepository(postgresConnection)
	beneficiaryRepo := postgres.NewBeneficiaryPostgreSQLRepository(postgresConnection)
	eftRepo := postgres.NewEFTPostgreSQLRepository(postgresConnection)
	userRepo := postgres.NewUserPostgreSQLRepository(postgresConnection)
	customerRepo := postgres.NewCustomerPostgreSQLRepository(postgresConnection)
	roleRepo := postgres.NewRolePostgreSQLRepository(postgresConnection)
	qrRepo := postgres.NewQRPostgreSQLRepository(postgresConnection)
	upiRepo := postgres.NewUPIPostgreSQLRepository(postgresConnection)
	unitOfWork := postgres.NewUnitOfWork(postgresConnection)

	metadataRepo := mongodb.NewMetadataMongoDBRepository(mongoConnection)
	lockRepo := redis.NewRedisLockRepository(redisConnection)
	eventPublisher := rabbitmq.NewEventPublisherRabbitMQRepository(rabbitMQConnection)

	eftGateway := external.NewSimulatedEFTGateway(cfg.EFTGatewayFailureProbability, cfg.EFTGatewaySeed)
	ifscValidator := external.NewStaticIFSCValidator()
	passwordHasher := external.NewBcryptPasswordHasher(int(cfg.BcryptCost))

	clock := idgen.NewSystemClock()
	refGen := idgen.NewSequentialReferenceGenerator()

	defaultMinimumBalance := decimalOrDefault(cfg.DefaultMinimumBalance, decimal.Zero)
	rtgsMinimumAmount := decimalOrDefault(cfg.RTGSMinimumAmount, decimal.NewFromInt(200000))

	commandUseCase := &command.UseCase{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		BeneficiaryRepo: beneficiaryRepo,
		EFTRepo:         eftRepo,
		UserRepo:        userRepo,
		CustomerRepo:    customerRepo,
		RoleRepo:        roleRepo,
		QRRepo:          qrRepo,
		UPIRepo:         upiRepo,
		MetadataRepo:    metadataRepo,
		LockRepo:        lockRepo,
		EventPublisher:  eventPublisher,

		UnitOfWork: unitOfWork,

		EFTGateway:     eftGateway,
		PasswordHasher: passwordHasher,
		IFSCValidator:  ifscValidator,
		Clock:          clock,
		RefGen:         refGen,

		NEFTTariff: NEFTTariff(),
		RTGSTariff: RTGSTariff(),
		NEFT: command.NEFTConfig{
			FirstBatchHour: int(cfg.NEFTFirstBatchHour),
			LastBatchHour:  int(cfg.NEFTLastBatchHour),
		},
		RTGS: command.RTGSConfig{
			WeekdayOnly:   cfg.RTGSWeekdayOnly,
			OpenHour:      int(cfg.RTGSOpenHour),
			OpenMinute:    int(cfg.RTGSOpenMinute),
			CloseHour:     int(cfg.RTGSCloseHour),
			CloseMinute:   int(cfg.RTGSCloseMinute),
			MinimumAmount: rtgsMinimumAmount,
		},

		DefaultAccountType:    cfg.DefaultAccountType,
		DefaultCurrency:       cfg.DefaultCurrency,
		DefaultMinimumBalance: defaultMinimumBalance,
	}

	queryUseCase := &query.UseCase{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		BeneficiaryRepo: beneficiaryRepo,
		EFTRepo:         eftRepo,
		UserRepo:        userRepo,
		CustomerRepo:    customerRepo,
		RoleRepo:        roleRepo,
		QRRepo:          qrRepo,
		UPIRepo:         upiRepo,
		MetadataRepo:    metadataRepo,
	}

	issuer := http.NewTokenIssuer([]byte(cfg.SessionTokenSecret), cfg.SessionTokenLifetime())

	authHandler := &in.AuthHandler{Command: commandUseCase, Issuer: issuer}
	onboardingHandler := &in.OnboardingHandler{Command: commandUseCase, Query: queryUseCase}
	accountHandler := &in.AccountHandler{Query: queryUseCase}
	transactionHandler := &in.TransactionHandler{Command: commandUseCase, Query: queryUseCase}
	transferHandler := &in.TransferHandler{Command: commandUseCase, Query: queryUseCase}
	beneficiaryHandler := &in.BeneficiaryHandler{Command: commandUseCase, Query: queryUseCase}
	eftHandler := &in.EFTHandler{Command: commandUseCase, Query: queryUseCase}
	qrUPIHandler := &in.QRUPIHandler{Command: commandUseCase, Query: queryUseCase}
	healthHandler := &in.HealthHandler{
		Postgres: func(ctx context.Context) error {
			db, err := postgresConnection.GetDB(ctx)
			if err != nil {
				return err
			}

			return db.Ping()
		},
		Mongo: func(ctx context.Context) error {
			client, err := mongoConnection.GetDB(ctx)
			if err != nil {
				return err
			}

			return client.Ping(ctx, nil)
		},
		Redis: func(ctx context.Context) error {
			client, err := redisConnection.GetDB(ctx)
			if err != nil {
				return err
			}

			return client.Ping(ctx).Err()
		},
		RabbitMQ: func(ctx context.Context) error {
			_, err := rabbitMQConnection.GetChannel(ctx)
			return err
		},
	}

	router := in.NewRouter(
		logger,
		telemetry,
		issuer,
		authHandler,
		onboardingHandler,
		accountHandler,
		transactionHandler,
		transferHandler,
		beneficiaryHandler,
		eftHandler,
		qrUPIHandler,
		healthHandler,
	)

	server := NewServer(cfg, router, logger)

	ticker := &NEFTBatchTicker{
		Command: commandUseCase,
		Clock:   clock,
		Logger:  logger,
	}

	return &Service{Server: server, Ticker: ticker, Logger: logger}
}
