// Package config loads the server configuration from a YAML file, creating
// it with generated defaults on first run.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the server-wide configuration.
type Config struct {
	// HTTPAddr is the listen address.
	HTTPAddr string `yaml:"http_addr"`

	// DatabasePath is the SQLite database file. Relative paths resolve
	// against the data directory.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Auth       Auth       `yaml:"auth"`
	RateLimits RateLimits `yaml:"rate_limits"`
}

// Auth configures the single-operator login.
type Auth struct {
	// PasswordHash is the bcrypt hash of the operator password. Empty
	// disables login (and with it every mutating endpoint).
	PasswordHash string `yaml:"password_hash"`

	// JWTSecret signs session tokens. Auto-generated on first load.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTLHours bounds session token lifetime.
	TokenTTLHours int `yaml:"token_ttl_hours"`
}

// RateLimits defines per-client request budgets (requests per minute,
// 0 means unlimited).
type RateLimits struct {
	WriteRatePerMin int `yaml:"write_rate_per_min"`
	ReadRatePerMin  int `yaml:"read_rate_per_min"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		HTTPAddr:     "localhost:8080",
		DatabasePath: "sitegrid.db",
		LogLevel:     "info",
		Auth: Auth{
			TokenTTLHours: 24 * 7,
		},
		RateLimits: RateLimits{
			WriteRatePerMin: 120,
			ReadRatePerMin:  6000,
		},
	}
}

// Load reads the configuration from path. A missing file is created with
// defaults. A missing JWT secret is generated and written back.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run, fall through and persist defaults.
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	changed := err != nil
	if cfg.Auth.JWTSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return cfg, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		cfg.Auth.JWTSecret = hex.EncodeToString(secret)
		changed = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if changed {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr must be set")
	}
	if c.DatabasePath == "" {
		return errors.New("database_path must be set")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Auth.TokenTTLHours <= 0 {
		return errors.New("auth.token_ttl_hours must be positive")
	}
	if c.RateLimits.WriteRatePerMin < 0 || c.RateLimits.ReadRatePerMin < 0 {
		return errors.New("rate limits must be non-negative")
	}
	return nil
}
