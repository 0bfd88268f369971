package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// Session backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	HTTPAddr string `env:"HTTP_ADDR, default=127.0.0.1:8080"`
	Timezone string `env:"APP_TIMEZONE, default=America/Guayaquil"`
	Platform string `env:"APP_PLATFORM, default=native"`

	API     APIConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://localhost:8000/api"`
	Timeout   time.Duration `env:"API_TIMEOUT,    default=15s"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=10"`
	RateBurst int           `env:"API_RATE_BURST, default=5"`
}

type SessionConfig struct {
	Backend    string `env:"SESSION_BACKEND, default=file"`
	Dir        string `env:"SESSION_DIR"`
	Passphrase string `env:"SESSION_PASSPHRASE"`
	Prefix     string `env:"SESSION_PREFIX, default=turnos"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=turnos_client"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads a .env file when one exists, then the environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper builds the configuration from l and validates it.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch c.Session.Backend {
	case BackendFile, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: SESSION_BACKEND %q: want file, redis or mongo", c.Session.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch domain.Platform(c.Platform) {
	case domain.PlatformWeb, domain.PlatformNative:
	default:
		return fmt.Errorf("config: APP_PLATFORM %q: want web or native", c.Platform)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: API_TIMEOUT must be positive")
	}
	return nil
}

// Location resolves APP_TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsDevelopment reports whether logs should be pretty-printed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}
