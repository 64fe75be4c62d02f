// Package bootstrap assembles the core's adapters, use cases and HTTP router
// into a running Server, mirroring the teacher's internal/service wiring
// (component config + server + direct constructor wiring) generalized from
// organizations/ledgers to this domain's accounts/transactions/EFT/QR/UPI
// repositories.
package bootstrap

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
)

// Config is the top level configuration struct for the entire application.
type Config struct {
	EnvName       string `env:"ENV_NAME"`
	ServerAddress string `env:"SERVER_ADDRESS"`

	PrimaryDBHost     string `env:"DB_HOST"`
	PrimaryDBUser     string `env:"DB_USER"`
	PrimaryDBPassword string `env:"DB_PASSWORD"`
	PrimaryDBName     string `env:"DB_NAME"`
	PrimaryDBPort     string `env:"DB_PORT"`
	ReplicaDBHost     string `env:"DB_REPLICA_HOST"`
	ReplicaDBUser     string `env:"DB_REPLICA_USER"`
	ReplicaDBPassword string `env:"DB_REPLICA_PASSWORD"`
	ReplicaDBName     string `env:"DB_REPLICA_NAME"`
	ReplicaDBPort     string `env:"DB_REPLICA_PORT"`

	MongoDBHost     string `env:"MONGO_HOST"`
	MongoDBName     string `env:"MONGO_NAME"`
	MongoDBUser     string `env:"MONGO_USER"`
	MongoDBPassword string `env:"MONGO_PASSWORD"`
	MongoDBPort     string `env:"MONGO_PORT"`

	RedisConnectionString string `env:"REDIS_CONNECTION_STRING"`

	RabbitMQHost     string `env:"RABBITMQ_HOST"`
	RabbitMQPortAMQP string `env:"RABBITMQ_PORT_AMQP"`
	RabbitMQUser     string `env:"RABBITMQ_DEFAULT_USER"`
	RabbitMQPass     string `env:"RABBITMQ_DEFAULT_PASS"`
	RabbitMQConsumer string `env:"RABBITMQ_CONSUMER"`
	RabbitMQProducer string `env:"RABBITMQ_PRODUCER"`

	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	SessionTokenSecret         string `env:"SESSION_TOKEN_SECRET"`
	SessionTokenLifetimeMinute int64  `env:"SESSION_TOKEN_LIFETIME_MINUTES"`

	BcryptCost int64 `env:"BCRYPT_COST"`

	EFTGatewayFailureProbability float64 `env:"EFT_GATEWAY_FAILURE_PROBABILITY"`
	EFTGatewaySeed               int64   `env:"EFT_GATEWAY_SEED"`

	NEFTFirstBatchHour int64 `env:"NEFT_FIRST_BATCH_HOUR"`
	NEFTLastBatchHour  int64 `env:"NEFT_LAST_BATCH_HOUR"`

	RTGSWeekdayOnly    bool   `env:"RTGS_WEEKDAY_ONLY"`
	RTGSOpenHour       int64  `env:"RTGS_OPEN_HOUR"`
	RTGSOpenMinute     int64  `env:"RTGS_OPEN_MINUTE"`
	RTGSCloseHour      int64  `env:"RTGS_CLOSE_HOUR"`
	RTGSCloseMinute    int64  `env:"RTGS_CLOSE_MINUTE"`
	RTGSMinimumAmount  string `env:"RTGS_MINIMUM_AMOUNT"`

	DefaultAccountType    string `env:"DEFAULT_ACCOUNT_TYPE"`
	DefaultCurrency       string `env:"DEFAULT_CURRENCY"`
	DefaultMinimumBalance string `env:"DEFAULT_MINIMUM_BALANCE"`
}

// NewConfig creates an instance of Config, populated from environment
// variables (spec.md §10.3: every operating parameter is configuration, not
// a compile-time constant).
func NewConfig() *Config {
	cfg := &Config{}

	if err := common.SetConfigFromEnvVars(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// SessionTokenLifetime returns the configured session lifetime as a
// time.Duration, defaulting to 60 minutes when unset.
func (c *Config) SessionTokenLifetime() time.Duration {
	if c.SessionTokenLifetimeMinute <= 0 {
		return 60 * time.Minute
	}

	return time.Duration(c.SessionTokenLifetimeMinute) * time.Minute
}

// decimalOrDefault parses s as a decimal.Decimal, falling back to
// defaultValue when s is blank or malformed.
func decimalOrDefault(s string, defaultValue decimal.Decimal) decimal.Decimal {
	if s == "" {
		return defaultValue
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return defaultValue
	}

	return d
}

// NEFTTariff is the fixed NEFT amount-banded charge table (spec.md §4.3).
func NEFTTariff() []mmodel.TariffBand {
	tenK := decimal.NewFromInt(10000)
	oneLakh := decimal.NewFromInt(100000)
	twoLakh := decimal.NewFromInt(200000)

	return []mmodel.TariffBand{
		{UpperBound: &tenK, Charge: decimal.NewFromFloat(2.50)},
		{UpperBound: &oneLakh, Charge: decimal.NewFromFloat(5)},
		{UpperBound: &twoLakh, Charge: decimal.NewFromFloat(15)},
		{UpperBound: nil, Charge: decimal.NewFromFloat(25)},
	}
}

// RTGSTariff is the fixed RTGS amount-banded charge table (spec.md §4.4).
func RTGSTariff() []mmodel.TariffBand {
	fiveLakh := decimal.NewFromInt(500000)

	return []mmodel.TariffBand{
		{UpperBound: &fiveLakh, Charge: decimal.NewFromFloat(25)},
		{UpperBound: nil, Charge: decimal.NewFromFloat(50)},
	}
}
