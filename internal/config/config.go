// Package config provides environment-driven configuration for netgraph.
// Load builds an explicit Config that the composition root hands to each
// factory; nothing in this package holds process-wide state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration values. The env tag names the
// variable each field is read from and is used in validation messages.
type Config struct {
	Driver        string `env:"DB_DRIVER" validate:"oneof=postgres sqlite"`
	DatabaseURL   Secret `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH"`
	DBMaxConns    int    `env:"DB_MAX_CONNS" validate:"min=1,max=100"`
	RunMigrations bool   `env:"RUN_MIGRATIONS"`

	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" validate:"min=100ms,max=5m"`

	Port        string   `env:"PORT"`
	MetricsPort string   `env:"METRICS_PORT"`
	ListenHost  string   `env:"LISTEN_HOST"`
	CORSOrigins []string `env:"CORS_ORIGINS"`

	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=json text"`

	ActivityWindowDays   int `env:"ACTIVITY_WINDOW_DAYS" validate:"min=0,max=3650"`
	CentralityWindowDays int `env:"CENTRALITY_WINDOW_DAYS" validate:"min=0,max=3650"`
	PageRankWindowDays   int `env:"PAGERANK_WINDOW_DAYS" validate:"min=0,max=3650"`
	HITSWindowDays       int `env:"HITS_WINDOW_DAYS" validate:"min=0,max=3650"`
	TimezoneOffsetHours  int `env:"TIMEZONE_OFFSET_HOURS" validate:"min=-12,max=14"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" validate:"min=1"`

	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" validate:"gt=0,lte=1"`
	BreakerMinRequests  int           `env:"BREAKER_MIN_REQUESTS" validate:"min=1"`
	BreakerTimeout      time.Duration `env:"BREAKER_TIMEOUT" validate:"min=1s"`

	TracesExporter string `env:"OTEL_TRACES_EXPORTER" validate:"oneof=none stdout otlp"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Driver:         envOrDefault("DB_DRIVER", DriverPostgres),
		DatabaseURL:    Secret(envOrDefault("DATABASE_URL", "")),
		SQLitePath:     envOrDefault("SQLITE_PATH", ""),
		Port:           envOrDefault("PORT", "3040"),
		MetricsPort:    envOrDefault("METRICS_PORT", "9092"),
		ListenHost:     envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
		TracesExporter: envOrDefault("OTEL_TRACES_EXPORTER", "none"),
		OTLPEndpoint:   envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	p := parser{}
	cfg.DBMaxConns = p.int("DB_MAX_CONNS", 10)
	cfg.RunMigrations = p.bool("RUN_MIGRATIONS", false)
	cfg.QueryTimeout = p.duration("QUERY_TIMEOUT", 10*time.Second)
	cfg.ActivityWindowDays = p.int("ACTIVITY_WINDOW_DAYS", 30)
	cfg.CentralityWindowDays = p.int("CENTRALITY_WINDOW_DAYS", 30)
	cfg.PageRankWindowDays = p.int("PAGERANK_WINDOW_DAYS", 30)
	cfg.HITSWindowDays = p.int("HITS_WINDOW_DAYS", 30)
	cfg.TimezoneOffsetHours = p.int("TIMEZONE_OFFSET_HOURS", 8)
	cfg.RateLimitRPS = p.float("RATE_LIMIT_RPS", 20)
	cfg.RateLimitBurst = p.int("RATE_LIMIT_BURST", 40)
	cfg.BreakerFailureRatio = p.float("BREAKER_FAILURE_RATIO", 0.6)
	cfg.BreakerMinRequests = p.int("BREAKER_MIN_REQUESTS", 5)
	cfg.BreakerTimeout = p.duration("BREAKER_TIMEOUT", 30*time.Second)

	if p.err != nil {
		return nil, p.err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// parser reads typed variables, keeping the first error.
type parser struct {
	err error
}

func (p *parser) fail(key, want, got string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s must be %s, got %q", key, want, got)
	}
}

func (p *parser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, "an integer", raw)
	}

	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, "a number", raw)
	}

	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, "a boolean", raw)
	}

	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, "a duration", raw)
	}

	return v
}
