// Package config loads and validates application configuration from environment
// variables and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultCORSOrigin = "http://localhost:5173"

// Config holds all configuration values for the API server.
// Values are populated by Load; environment variables win over the YAML file.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port" env:"PORT" env-default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	// JWTSecret signs and verifies admin bearer tokens (HS256). Required.
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	// MaxBodyBytes caps request bodies. Larger bodies get 413.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" env-default:"1048576"`

	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"true"`

	Log       Log       `yaml:"log"`
	Redis     Redis     `yaml:"redis"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

// Log selects where log lines go. Output "file" rotates through lumberjack.
type Log struct {
	Output     string `yaml:"output" env:"LOG_OUTPUT" env-default:"stdout"`
	File       string `yaml:"file" env:"LOG_FILE" env-default:"logs/api.log"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"50"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
}

// Redis configures the listing cache. An empty Addr disables caching.
type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
}

// RateLimit configures the per-client limiter on public write endpoints.
type RateLimit struct {
	PerMinute int `yaml:"per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"120"`
	Burst     int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

// Load reads configuration and returns a Config. When CONFIG_FILE is set the
// YAML file is read first and environment variables override it.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	// An exported but empty variable counts as unset.
	cfg.Port = orDefault(cfg.Port, "8080")
	cfg.LogLevel = orDefault(cfg.LogLevel, "info")
	cfg.Log.Output = orDefault(cfg.Log.Output, "stdout")
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{defaultCORSOrigin}
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// cleanList trims every entry and drops empty ones.
func cleanList(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
