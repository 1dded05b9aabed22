package config

import (
	"fmt"
	"time"

	"github.com/Fras28/dynnamo-cart/pkg/config"
)

// Storage backends for cart slots.
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds all cart service configuration, loaded from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"CART_HTTP_PORT" envDefault:"8084"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Storage selects where cart slots live: "redis" or "memory".
	Storage       string        `env:"CART_STORAGE" envDefault:"redis"`
	CartTTL       time.Duration `env:"CART_TTL" envDefault:"168h"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:"http://localhost:3000"`
	OrdersBaseURL  string `env:"ORDERS_BASE_URL" envDefault:"http://localhost:3000"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"cart-service"`

	// ClearCartOnLogout abandons the shopper's cart when the auth backend
	// reports a logout. Off by default: carts outlive sessions.
	ClearCartOnLogout bool `env:"CLEAR_CART_ON_LOGOUT" envDefault:"false"`

	// StockLimit caps line quantities at the product's known stock.
	StockLimit bool `env:"CART_STOCK_LIMIT" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	TracingEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Storage != StorageRedis && c.Storage != StorageMemory {
		return fmt.Errorf("invalid CART_STORAGE %q: must be %q or %q", c.Storage, StorageRedis, StorageMemory)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid CART_HTTP_PORT %d", c.HTTPPort)
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("CART_TTL must be positive, got %s", c.CartTTL)
	}
	if c.ClearCartOnLogout && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("CLEAR_CART_ON_LOGOUT requires KAFKA_BROKERS")
	}
	return nil
}

// EventsEnabled reports whether Kafka publishing is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
