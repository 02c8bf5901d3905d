package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the portal reads from its environment. It is
// built once in main and passed into constructors; components never read
// ambient state.
type Config struct {
	Addr     string `env:"PORTAL_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Sheets    Sheets    `envPrefix:"SHEETS_"`
	AntiSpam  AntiSpam  `envPrefix:"ANTISPAM_"`
	Database  Database  `envPrefix:"DATABASE_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	Kafka     Kafka     `envPrefix:"KAFKA_"`
	Admin     Admin     `envPrefix:"ADMIN_"`
	RateLimit RateLimit `envPrefix:"RATELIMIT_"`
}

// Sheets locates the master table and the export endpoint used to fetch
// external registration lists.
type Sheets struct {
	BaseURL      string        `env:"BASE_URL" envDefault:"https://docs.google.com"`
	CatalogID    string        `env:"CATALOG_ID"`
	CatalogTable string        `env:"CATALOG_TABLE" envDefault:"Master"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// AntiSpam configures the external scoring collaborator. MinScore is the
// minimum confidence below which a submission is rejected.
type AntiSpam struct {
	Endpoint string        `env:"ENDPOINT" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	Secret   string        `env:"SECRET"`
	MinScore float64       `env:"MIN_SCORE" envDefault:"0.5"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Database holds the optional Postgres submission-log connection. When DSN is
// empty, submissions are recorded in memory.
type Database struct {
	DSN string `env:"DSN"`
}

// Redis holds the optional rate-limit store connection. When URL is empty the
// limiter falls back to its in-memory store.
type Redis struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// Kafka holds the optional audit sink. When Brokers is empty, audit events
// stay in the in-memory store only.
type Kafka struct {
	Brokers []string `env:"BROKERS"`
	Topic   string   `env:"TOPIC" envDefault:"portal.audit"`
}

// Admin configures the JWT guard for the admin surface.
type Admin struct {
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

// RateLimit bounds requests per client IP on the public routes.
type RateLimit struct {
	Limit  int           `env:"LIMIT" envDefault:"60"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Load builds the configuration from environment variables so main stays lean.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
