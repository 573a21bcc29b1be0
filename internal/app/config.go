package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Upstream inventory/pricing API owning all persistence.
	InventoryAPIURL     string        `envconfig:"INVENTORY_API_URL" required:"true"`
	InventoryAPITimeout time.Duration `envconfig:"INVENTORY_API_TIMEOUT" default:"10s"`

	// Transaction endpoint; injected, never hard-coded.
	TransactionURL    string `envconfig:"TRANSACTION_URL" required:"true"`
	TransactionMethod string `envconfig:"TRANSACTION_METHOD" default:"POST"`

	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SearchCacheTTL time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"30s"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"8h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.InventoryAPIURL == "" {
		return nil, errors.New("inventory api url must be provided")
	}
	if cfg.TransactionURL == "" {
		return nil, errors.New("transaction url must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
