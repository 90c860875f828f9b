package infra

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"foxa"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"foxa"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"foxa_community"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" envDefault:"20"`

	// Redis settings cache
	RedisURL     string `env:"REDIS_URL"`
	CacheTTLSecs int    `env:"SETTINGS_CACHE_TTL_SECS" envDefault:"300"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3200"`

	// Kafka audit mirror
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Login rate limiting per client IP
	LoginRateLimit  int `env:"LOGIN_RATE_LIMIT" envDefault:"20"`
	LoginRateWindow int `env:"LOGIN_RATE_WINDOW_SECS" envDefault:"60"`

	// Session sweep interval in minutes. 0 disables the sweeper.
	SessionSweepMins int `env:"SESSION_SWEEP_MINS" envDefault:"60"`

	// Migrations
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
