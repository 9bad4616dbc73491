package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultJWTSecret = "change-me-in-production"

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration, populated from environment
// variables
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Store    StoreConfig    `envPrefix:"STORE_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	CORS     CORSConfig     `envPrefix:"CORS_"`
}

type AppConfig struct {
	Name        string `env:"NAME" envDefault:"Wildlife Catalog API"`
	Environment string `env:"ENV" envDefault:"development"` // development, staging, production
	Port        string `env:"PORT" envDefault:"8080"`
	Version     string `env:"VERSION" envDefault:"1.0.0"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// StoreConfig selects the record store backend
type StoreConfig struct {
	Driver     string `env:"DRIVER" envDefault:"memory"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/catalog.db"`
	// Seed loads the built-in catalog into an empty store on startup
	Seed bool `env:"SEED" envDefault:"true"`
}

type DatabaseConfig struct {
	Host              string        `env:"HOST" envDefault:"localhost"`
	Port              int           `env:"PORT" envDefault:"5432"`
	User              string        `env:"USER" envDefault:"wildlife"`
	Password          string        `env:"PASSWORD"`
	Name              string        `env:"NAME" envDefault:"wildlife"`
	SSLMode           string        `env:"SSLMODE" envDefault:"disable"`
	MaxConns          int32         `env:"MAX_CONNECTIONS" envDefault:"25"`
	MinConns          int32         `env:"MIN_CONNECTIONS" envDefault:"2"`
	MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime   time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"1m"`
	HealthCheckPeriod time.Duration `env:"HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"5"`
	RetryDelay        time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	ConnectTimeout    time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

// RedisConfig is optional; an empty Addr uses the in-process cache
type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	Prefix   string        `env:"PREFIX" envDefault:"wildlife:"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET" envDefault:"change-me-in-production"`
	Expiry time.Duration `env:"EXPIRY" envDefault:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads config from environment variables
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads config from the given variables only
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("STORE_SQLITE_PATH must be set for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New("DB_HOST and DB_NAME must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}

	// Production environment must have real secrets
	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
		if c.Store.Driver == DriverPostgres && c.Database.Password == "" {
			return errors.New("DB_PASSWORD must be set in production")
		}
	}

	return nil
}
