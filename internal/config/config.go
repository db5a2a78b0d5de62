// Package config loads service configuration. Values come from an optional
// YAML file (CONFIG_FILE) with environment variables taking precedence, so a
// container deployment can override any single knob.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ListenAddr string `yaml:"listen_addr"`

	// Denom is the only denomination the escrow ledger accepts.
	Denom string `yaml:"denom"`

	// RedisURL selects the Redis record store; empty means in-memory.
	RedisURL string `yaml:"redis_url"`

	// DatabaseURL enables the Postgres settlement archive; empty disables it.
	DatabaseURL string `yaml:"database_url"`

	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	LogFile    string `yaml:"log_file"`
	LogConsole bool   `yaml:"log_console"`
}

func defaults() *AppConfig {
	return &AppConfig{
		ListenAddr: ":8085",
		Denom:      "uscrt",
		LogLevel:   "info",
		LogFormat:  "console",
		LogConsole: true,
	}
}

func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg.ListenAddr, "LISTEN_ADDR")
	applyEnv(&cfg.Denom, "ESCROW_DENOM")
	applyEnv(&cfg.RedisURL, "REDIS_URL")
	applyEnv(&cfg.DatabaseURL, "DATABASE_URL")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	applyEnv(&cfg.LogFormat, "LOG_FORMAT")
	applyEnv(&cfg.LogFile, "LOG_FILE")
	if v := strings.TrimSpace(os.Getenv("LOG_TO_CONSOLE")); v != "" {
		cfg.LogConsole = strings.EqualFold(v, "true") || v == "1"
	}

	if strings.TrimSpace(cfg.Denom) == "" {
		return nil, fmt.Errorf("denom must not be empty")
	}
	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
