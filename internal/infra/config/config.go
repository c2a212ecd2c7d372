// Package config loads the application configuration from the environment,
// applies per-environment defaults, and validates the result before the rest
// of the process starts. Shape (env-tag struct + InitConfig +
// applyEnvironmentDefaults + validateConfiguration) is grounded on the
// teacher's internal/infra/config/config.go, generalized from elevator-
// motion timing knobs to the dispatcher's own sizing and sampler knobs.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/dgarridoa/elevator-dispatch/internal/constants"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
)

// Config holds every environment-driven knob for the dispatcher process.
type Config struct {
	// Environment and logging
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`

	// HTTP server
	Port            int           `env:"PORT" envDefault:"6660"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	ShutdownGrace   time.Duration `env:"SERVER_SHUTDOWN_GRACE" envDefault:"2s"`

	// Dispatcher sizing (C4)
	NElevators int           `env:"N_ELEVATORS" envDefault:"3"`
	NFloors    int           `env:"N_FLOORS" envDefault:"10"`
	WaitPeriod time.Duration `env:"WAIT_PERIOD" envDefault:"10s"`

	// HTTP middleware
	RateLimitRPM       int           `env:"RATE_LIMIT_RPM" envDefault:"100"`
	RateLimitWindow    time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitCleanup   time.Duration `env:"RATE_LIMIT_CLEANUP" envDefault:"5m"`
	MaxRequestSize     int64         `env:"MAX_REQUEST_SIZE" envDefault:"1048576"`
	RequestTimeoutHTTP time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	CORSEnabled        bool          `env:"CORS_ENABLED" envDefault:"true"`
	CORSMaxAge         time.Duration `env:"CORS_MAX_AGE" envDefault:"12h"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Monitoring
	MetricsEnabled       bool          `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPath          string        `env:"METRICS_PATH" envDefault:"/metrics"`
	StatusUpdateInterval time.Duration `env:"STATUS_UPDATE_INTERVAL" envDefault:"1s"`
	HealthEnabled        bool          `env:"HEALTH_ENABLED" envDefault:"true"`
	HealthPath           string        `env:"HEALTH_PATH" envDefault:"/health"`
	StructuredLogging    bool          `env:"STRUCTURED_LOGGING" envDefault:"true"`
	LogRequestDetails    bool          `env:"LOG_REQUEST_DETAILS" envDefault:"false"`
	CorrelationIDHeader  string        `env:"CORRELATION_ID_HEADER" envDefault:"X-Request-ID"`

	// WebSocket status stream (C7)
	WebSocketEnabled        bool          `env:"WEBSOCKET_ENABLED" envDefault:"true"`
	WebSocketPath           string        `env:"WEBSOCKET_PATH" envDefault:"/ws/status"`
	WebSocketWriteTimeout   time.Duration `env:"WEBSOCKET_WRITE_TIMEOUT" envDefault:"5s"`
	WebSocketPingInterval   time.Duration `env:"WEBSOCKET_PING_INTERVAL" envDefault:"30s"`
	WebSocketMaxConnections int           `env:"WEBSOCKET_MAX_CONNECTIONS" envDefault:"1000"`

	// HR sampler (C5)
	HRSeed            uint64 `env:"HR_SEED" envDefault:"0"`
	HRDefaultPersonas int    `env:"HR_DEFAULT_N_PERSONAS" envDefault:"1000"`
	HRDefaultConyuges int    `env:"HR_DEFAULT_N_CONYUGES" envDefault:"50"`
	HRDefaultHijos    int    `env:"HR_DEFAULT_N_HIJOS" envDefault:"120"`
	HRAttemptCap      int    `env:"HR_ATTEMPT_CAP" envDefault:"100000"`
	HRMinDateStr      string `env:"HR_MIN_DATE" envDefault:"1920-01-01"`
	HRMaxDateStr      string `env:"HR_MAX_DATE" envDefault:"2025-01-01"`

	// HRMinDate and HRMaxDate are parsed from HRMinDateStr/HRMaxDateStr by
	// InitConfig, since caarlos0/env has no time.Time support beyond
	// time.Duration.
	HRMinDate time.Time `env:"-"`
	HRMaxDate time.Time `env:"-"`

	// WebSocket read deadline, refreshed by every pong (C7)
	WebSocketReadTimeout time.Duration `env:"WEBSOCKET_READ_TIMEOUT" envDefault:"60s"`
}

// InitConfig parses environment variables, applies per-environment defaults,
// and validates the result.
func InitConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	applyEnvironmentDefaults(&cfg)

	minDate, err := time.Parse("2006-01-02", cfg.HRMinDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HR_MIN_DATE: %w", err)
	}
	maxDate, err := time.Parse("2006-01-02", cfg.HRMaxDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HR_MAX_DATE: %w", err)
	}
	cfg.HRMinDate = minDate
	cfg.HRMaxDate = maxDate

	if err := validateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyEnvironmentDefaults(cfg *Config) {
	switch cfg.Environment {
	case "development", "dev":
		applyDevelopmentDefaults(cfg)
	case "testing", "test":
		applyTestingDefaults(cfg)
	case "production", "prod":
		applyProductionDefaults(cfg)
	}
}

func applyDevelopmentDefaults(cfg *Config) {
	if cfg.LogLevel == "INFO" {
		cfg.LogLevel = "DEBUG"
	}
	cfg.LogRequestDetails = true
}

func applyTestingDefaults(cfg *Config) {
	cfg.LogLevel = "WARN"
	cfg.ReadTimeout = 2 * time.Second
	cfg.WriteTimeout = 2 * time.Second
	cfg.IdleTimeout = 10 * time.Second
	cfg.RequestTimeoutHTTP = 1 * time.Second
	cfg.MetricsEnabled = false
	cfg.WebSocketEnabled = false
	cfg.LogRequestDetails = false
	cfg.RateLimitRPM = 1000
	cfg.MaxRequestSize = 256 * 1024
	cfg.HRAttemptCap = 1000
}

func applyProductionDefaults(cfg *Config) {
	cfg.LogLevel = "WARN"
	cfg.LogRequestDetails = false
	cfg.RateLimitRPM = 30
	cfg.ReadTimeout = 15 * time.Second
	cfg.WriteTimeout = 15 * time.Second
	cfg.IdleTimeout = 60 * time.Second
	cfg.RequestTimeoutHTTP = 10 * time.Second
	cfg.WebSocketMaxConnections = 5000
	cfg.WebSocketWriteTimeout = 2 * time.Second
	cfg.WebSocketPingInterval = 15 * time.Second
	if _, set := os.LookupEnv("CORS_ALLOWED_ORIGINS"); !set {
		cfg.CORSAllowedOrigins = "https://app.example.com"
	}
	cfg.MaxRequestSize = 512 * 1024
}

func validateConfiguration(cfg *Config) error {
	if cfg.NElevators <= 0 {
		return domain.NewValidationError("n_elevators must be positive", nil).
			WithContext("n_elevators", cfg.NElevators)
	}

	if cfg.NFloors <= 0 {
		return domain.NewValidationError("n_floors must be positive", nil).
			WithContext("n_floors", cfg.NFloors)
	}
	if cfg.NFloors > constants.MaxAllowedFloor {
		return domain.NewValidationError("n_floors exceeds system maximum", nil).
			WithContext("n_floors", cfg.NFloors).
			WithContext("system_maximum", constants.MaxAllowedFloor)
	}

	if cfg.WaitPeriod <= 0 {
		return domain.NewValidationError("wait_period must be positive", nil).
			WithContext("wait_period", cfg.WaitPeriod)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return domain.NewValidationError("port must be between 1 and 65535", nil).
			WithContext("port", cfg.Port)
	}

	if cfg.HRAttemptCap <= 0 {
		return domain.NewValidationError("hr_attempt_cap must be positive", nil).
			WithContext("hr_attempt_cap", cfg.HRAttemptCap)
	}

	if !cfg.HRMaxDate.After(cfg.HRMinDate) {
		return domain.NewValidationError("hr_max_date must be after hr_min_date", nil).
			WithContext("hr_min_date", cfg.HRMinDateStr).
			WithContext("hr_max_date", cfg.HRMaxDateStr)
	}

	return validateEnvironmentSpecificConfig(cfg)
}

func validateEnvironmentSpecificConfig(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.CORSAllowedOrigins == "*" {
			return domain.NewValidationError("CORS wildcard not allowed in production", nil).
				WithContext("environment", cfg.Environment)
		}
		if cfg.RateLimitRPM > 100 {
			return domain.NewValidationError("rate limit too high for production", nil).
				WithContext("environment", cfg.Environment).
				WithContext("rate_limit", cfg.RateLimitRPM)
		}
	}

	if cfg.IsTesting() && cfg.MetricsEnabled {
		return domain.NewValidationError("metrics should be disabled in testing environment", nil).
			WithContext("environment", cfg.Environment)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func (c *Config) IsTesting() bool {
	return c.Environment == "testing" || c.Environment == "test"
}

// EnvironmentInfo returns a small summary useful for startup logging.
func (c *Config) EnvironmentInfo() map[string]interface{} {
	return map[string]interface{}{
		"environment":       c.Environment,
		"log_level":         c.LogLevel,
		"port":              c.Port,
		"n_elevators":       c.NElevators,
		"n_floors":          c.NFloors,
		"metrics_enabled":   c.MetricsEnabled,
		"websocket_enabled": c.WebSocketEnabled,
	}
}
