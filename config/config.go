package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Redis    RedisConfig
	Messages MessagesConfig
	Limits   LimitsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// APIConfig describes the scanning backend the dashboard reads from.
type APIConfig struct {
	URL     string        `envconfig:"API_URL" required:"true"`
	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`

	// Either a pre-issued bearer token, or a shared secret used to mint one.
	Token    string        `envconfig:"API_TOKEN"`
	Secret   string        `envconfig:"API_SECRET"`
	UserID   int           `envconfig:"API_USER_ID" default:"1"`
	Email    string        `envconfig:"API_EMAIL" default:"admin@example.com"`
	TokenTTL time.Duration `envconfig:"API_TOKEN_TTL" default:"24h"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Username string `envconfig:"REDIS_USERNAME"`
	Password string `envconfig:"REDIS_PASSWORD"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type MessagesConfig struct {
	ViewTTL         time.Duration `envconfig:"VIEW_TTL" default:"30m"`
	DefaultPageSize int           `envconfig:"ITEMS_PER_PAGE" default:"10"`
	MaxPageSize     int           `envconfig:"MAX_ITEMS_PER_PAGE" default:"100"`
}

type LimitsConfig struct {
	ViewsPerMinute int `envconfig:"RATE_LIMIT_VIEWS" default:"1200"`
}

func Load() (*Config, error) {
	// A missing .env is fine, the platform environment is used instead.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	if c.API.URL == "" {
		return fmt.Errorf("config: API_URL must not be empty")
	}
	if c.API.Token == "" && c.API.Secret == "" {
		return fmt.Errorf("config: one of API_TOKEN or API_SECRET must be set")
	}
	if c.Messages.DefaultPageSize <= 0 {
		return fmt.Errorf("config: ITEMS_PER_PAGE must be positive, got %d", c.Messages.DefaultPageSize)
	}
	if c.Messages.MaxPageSize < c.Messages.DefaultPageSize {
		c.Messages.MaxPageSize = c.Messages.DefaultPageSize
	}
	return nil
}
