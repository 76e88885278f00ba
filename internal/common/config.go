// Package common provides shared utilities for planlens
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/planlens/internal/models"
)

// Config holds all configuration for planlens
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Metrics     MetricsConfig `toml:"metrics"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects and configures the persistence backend.
// Backend "file" keeps JSON files under Path; "surrealdb" connects to Address.
// Versions is how many previous copies of each saved portfolio the file backend keeps.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	Versions  int    `toml:"versions"`
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	MFAPI MFAPIConfig `toml:"mfapi"`
}

// MFAPIConfig holds NAV provider configuration
type MFAPIConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *MFAPIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// MetricsConfig holds the numeric assumptions used by the comparison engine.
// Zero values fall back to models.DefaultMetricsConfig.
type MetricsConfig struct {
	RiskFreeRate         float64 `toml:"risk_free_rate"`
	TradingDays          int     `toml:"trading_days"`
	XIRRMaxIterations    int     `toml:"xirr_max_iterations"`
	XIRRTolerance        float64 `toml:"xirr_tolerance"`
	XIRRInitialGuess     float64 `toml:"xirr_initial_guess"`
	MinVolatilitySamples int     `toml:"min_volatility_samples"`
	MinBetaPoints        int     `toml:"min_beta_points"`
	MinAlphaPeriods      int     `toml:"min_alpha_periods"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// AuthConfig holds optional API authentication. An empty JWTSecret disables bearer checks.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	d := models.DefaultMetricsConfig()
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend:   "file",
			Path:      "data",
			Versions:  5,
			Address:   "ws://localhost:8000/rpc",
			Namespace: "planlens",
			Database:  "planlens",
			Username:  "root",
			Password:  "root",
		},
		Clients: ClientsConfig{
			MFAPI: MFAPIConfig{
				BaseURL:   "https://api.mfapi.in",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Metrics: MetricsConfig{
			RiskFreeRate:         d.RiskFreeRate,
			TradingDays:          d.TradingDaysPerYear,
			XIRRMaxIterations:    d.XIRRMaxIterations,
			XIRRTolerance:        d.XIRRTolerance,
			XIRRInitialGuess:     d.XIRRInitialGuess,
			MinVolatilitySamples: d.MinVolatilitySamples,
			MinBetaPoints:        d.MinBetaPoints,
			MinAlphaPeriods:      d.MinAlphaPeriods,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/planlens.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if config.Storage.Backend == "" {
		config.Storage.Backend = "file"
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PLANLENS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PLANLENS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PLANLENS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PLANLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PLANLENS_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Clean(path)
	}

	if backend := os.Getenv("PLANLENS_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if addr := os.Getenv("PLANLENS_SURREALDB_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if v := os.Getenv("PLANLENS_SURREALDB_USER"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("PLANLENS_SURREALDB_PASS"); v != "" {
		config.Storage.Password = v
	}

	if v := os.Getenv("PLANLENS_MFAPI_BASE_URL"); v != "" {
		config.Clients.MFAPI.BaseURL = v
	}

	if v := os.Getenv("PLANLENS_RISK_FREE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Metrics.RiskFreeRate = f
		}
	}

	if v := os.Getenv("PLANLENS_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// MetricsConfig converts the [metrics] table into the engine configuration.
// Unset (zero) fields take the engine defaults.
func (c *Config) MetricsConfig() models.MetricsConfig {
	cfg := models.DefaultMetricsConfig()
	m := c.Metrics

	if m.RiskFreeRate != 0 {
		cfg.RiskFreeRate = m.RiskFreeRate
	}
	if m.TradingDays > 0 {
		cfg.TradingDaysPerYear = m.TradingDays
	}
	if m.XIRRMaxIterations > 0 {
		cfg.XIRRMaxIterations = m.XIRRMaxIterations
	}
	if m.XIRRTolerance > 0 {
		cfg.XIRRTolerance = m.XIRRTolerance
	}
	if m.XIRRInitialGuess != 0 {
		cfg.XIRRInitialGuess = m.XIRRInitialGuess
	}
	if m.MinVolatilitySamples > 0 {
		cfg.MinVolatilitySamples = m.MinVolatilitySamples
	}
	if m.MinBetaPoints > 0 {
		cfg.MinBetaPoints = m.MinBetaPoints
	}
	if m.MinAlphaPeriods > 0 {
		cfg.MinAlphaPeriods = m.MinAlphaPeriods
	}
	return cfg
}
