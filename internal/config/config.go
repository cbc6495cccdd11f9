// Package config loads the server configuration from an optional YAML file
// with ADRELAY_* environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort        int    `yaml:"http-port"`
	DatabasePath    string `yaml:"database-path"`
	SessionSecret   string `yaml:"session-secret"`
	SweepSpec       string `yaml:"sweep-spec"`
	MuleFanOut      int    `yaml:"mule-fan-out"`
	CacheTTLSeconds int    `yaml:"cache-ttl-seconds"`
	LogLevel        string `yaml:"log-level"`
}

const (
	defaultHTTPPort        = 8080
	defaultDatabasePath    = "data/adrelay.db"
	defaultSweepSpec       = "@every 1m"
	defaultMuleFanOut      = 5
	defaultCacheTTLSeconds = 30
	defaultLogLevel        = "info"
)

// Load reads path when it is non-empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPPort:        defaultHTTPPort,
		DatabasePath:    defaultDatabasePath,
		SweepSpec:       defaultSweepSpec,
		MuleFanOut:      defaultMuleFanOut,
		CacheTTLSeconds: defaultCacheTTLSeconds,
		LogLevel:        defaultLogLevel,
	}

	if path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if v := os.Getenv("ADRELAY_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ADRELAY_HTTP_PORT: %w", err)
		}
		cfg.HTTPPort = port
	}
	if v := os.Getenv("ADRELAY_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("ADRELAY_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("ADRELAY_SWEEP_SPEC"); v != "" {
		cfg.SweepSpec = v
	}
	if v := os.Getenv("ADRELAY_MULE_FAN_OUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ADRELAY_MULE_FAN_OUT: %w", err)
		}
		cfg.MuleFanOut = n
	}
	if v := os.Getenv("ADRELAY_CACHE_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ADRELAY_CACHE_TTL_SECONDS: %w", err)
		}
		cfg.CacheTTLSeconds = n
	}
	if v := os.Getenv("ADRELAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("session secret is required (session-secret or ADRELAY_SESSION_SECRET)")
	}
	if cfg.MuleFanOut < 1 {
		return Config{}, fmt.Errorf("mule-fan-out must be at least 1")
	}
	return cfg, nil
}
