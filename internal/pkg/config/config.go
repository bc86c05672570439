package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// RoleCacheTTL is the freshness window for cached role lookups.
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL, default=5m"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Billing  BillingConfig
	Checkout CheckoutConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=civic_issues"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// BillingConfig holds the paid-feature pricing and the free-tier limit.
// Amounts are in minor currency units.
type BillingConfig struct {
	BoostPrice        int64 `env:"BOOST_PRICE,         default=100"`
	SubscriptionPrice int64 `env:"SUBSCRIPTION_PRICE,  default=1000"`
	FreeIssueLimit    int   `env:"FREE_ISSUE_LIMIT,    default=3"`
}

// CheckoutConfig points at the external checkout provider.
type CheckoutConfig struct {
	BaseURL string `env:"CHECKOUT_BASE_URL"`
	APIKey  string `env:"CHECKOUT_API_KEY"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
