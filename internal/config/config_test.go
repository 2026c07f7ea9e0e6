package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file created with defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != "localhost:8080" || cfg.DatabasePath != "sitegrid.db" {
			t.Errorf("defaults not applied: %+v", cfg)
		}
		if cfg.Auth.JWTSecret == "" {
			t.Error("jwt secret not generated")
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("config file not persisted: %v", err)
		}
	})

	t.Run("generated secret is stable across loads", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		first, err := Load(path)
		if err != nil {
			t.Fatalf("first Load: %v", err)
		}
		second, err := Load(path)
		if err != nil {
			t.Fatalf("second Load: %v", err)
		}
		if first.Auth.JWTSecret != second.Auth.JWTSecret {
			t.Error("jwt secret regenerated on reload")
		}
	})

	t.Run("existing values survive a round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg := Default()
		cfg.HTTPAddr = ":9090"
		cfg.Auth.PasswordHash = "$2a$10$fake"
		cfg.Auth.JWTSecret = "abc123"
		if err := Save(path, cfg); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got.HTTPAddr != ":9090" || got.Auth.PasswordHash != "$2a$10$fake" || got.Auth.JWTSecret != "abc123" {
			t.Errorf("round trip lost values: %+v", got)
		}
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("http_addr: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("malformed config accepted")
		}
	})
}

func TestValidate(t *testing.T) {
	base := Default()
	base.Auth.JWTSecret = "s"

	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults valid", func(c *Config) {}, true},
		{"empty addr", func(c *Config) { c.HTTPAddr = "" }, false},
		{"empty db path", func(c *Config) { c.DatabasePath = "" }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, false},
		{"zero token ttl", func(c *Config) { c.Auth.TokenTTLHours = 0 }, false},
		{"negative rate limit", func(c *Config) { c.RateLimits.WriteRatePerMin = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.wantOK {
				t.Errorf("Validate() = %v, wantOK=%v", err, tt.wantOK)
			}
		})
	}
}
