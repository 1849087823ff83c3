// Package config loads server configuration from an optional YAML file with
// environment variable overrides, so main stays lean.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database file path.
	DBPath string `yaml:"db_path"`

	// JWTSecret signs session tokens. Override the default in production.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTL is how long issued tokens remain valid.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// CORSOrigins lists allowed browser origins. Empty allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`
}

func defaults() *Config {
	return &Config{
		Addr:      ":8080",
		DBPath:    "./data/eventease.db",
		JWTSecret: "dev-secret-change-in-production",
		TokenTTL:  24 * time.Hour,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// EVENTEASE_CONFIG (if set), then environment variable overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("EVENTEASE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("EVENTEASE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}

	return cfg, nil
}
