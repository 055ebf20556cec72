package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string   `env:"PORT,         default=8080"`
	Env         string   `env:"ENV,          default=development"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Stripe   StripeConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"JWT_TTL,    default=1h"`
}

type MongoConfig struct {
	URI          string        `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string        `env:"MONGO_DB,           default=craftDB"`
	Timeout      time.Duration `env:"MONGO_TIMEOUT,      default=10s"`
	Transactions bool          `env:"MONGO_TRANSACTIONS, default=false"`
}

// RedisConfig is optional: an empty Addr disables the checkout lock.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type CheckoutConfig struct {
	LockTTL   time.Duration `env:"CHECKOUT_LOCK_TTL,   default=30s"`
	Workers   int           `env:"CHECKOUT_WORKERS,    default=8"`
	QueueSize int           `env:"CHECKOUT_QUEUE_SIZE, default=64"`
}

// StripeConfig is optional: without a secret key payment intents fail as upstream errors.
type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency  string `env:"STRIPE_CURRENCY, default=usd"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through an arbitrary lookuper, e.g. envconfig.MapLookuper in tests.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Checkout.Workers <= 0 {
		return nil, fmt.Errorf("load config: CHECKOUT_WORKERS must be positive, got %d", cfg.Checkout.Workers)
	}
	return &cfg, nil
}
