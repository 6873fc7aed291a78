package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/RishiKendai/scorerelay/internal/configs/env"
	"github.com/RishiKendai/scorerelay/internal/relay"
)

// Config holds all configuration for the application
type Config struct {
	// Sheets webhook
	SheetsWebhookURL string
	SheetsSecret     string

	// Rate Limiting
	RateLimitRPS float64

	// CORS
	CORSAllowedOrigins []string

	// Logging
	LogLevel  string
	LogPretty bool

	// Server
	ServerPort      string
	MetricsPort     string
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Sheets webhook. Both stay empty when unset: the relay reports
	// server_not_configured per request instead of refusing to boot.
	cfg.SheetsWebhookURL = env.GetEnv("SHEETS_WEBHOOK_URL", "")
	cfg.SheetsSecret = env.GetEnv("SHEETS_SECRET", "")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// CORS
	cfg.CORSAllowedOrigins = env.GetEnvList("CORS_ALLOWED_ORIGINS", []string{"*"})

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")
	cfg.LogPretty = env.GetEnvBool("LOG_PRETTY", false)

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", env.GetEnv("PORT", "8080"))
	cfg.MetricsPort = env.GetEnv("METRICS_PORT", "2112")
	shutdownSeconds := env.GetEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 30)
	cfg.ShutdownTimeout = time.Duration(shutdownSeconds) * time.Second

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatePort(c.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT: %w", err)
	}
	if err := validatePort(c.MetricsPort); err != nil {
		return fmt.Errorf("METRICS_PORT: %w", err)
	}
	if c.ServerPort == c.MetricsPort {
		return fmt.Errorf("METRICS_PORT must differ from SERVER_PORT")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

// Relay returns the subset of the configuration the relay needs.
func (c *Config) Relay() relay.Config {
	return relay.Config{
		UpstreamURL:  c.SheetsWebhookURL,
		SharedSecret: c.SheetsSecret,
	}
}

// RateLimitBurst allows short bursts of twice the steady rate.
func (c *Config) RateLimitBurst() int {
	burst := int(c.RateLimitRPS * 2)
	if burst < 1 {
		burst = 1
	}
	return burst
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q", port)
	}
	if n <= 0 || n > 65535 {
		return fmt.Errorf("port %d out of range", n)
	}
	return nil
}
