// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries the server settings. Values come from an optional YAML
// file named by CONFIG_FILE, with environment variables taking precedence
// over the file and built-in defaults filling the rest.
type Config struct {
	HTTPAddr      string `yaml:"http_addr"`
	Env           string `yaml:"env"`
	LogLevel      string `yaml:"log_level"`
	DatabaseURL   string `yaml:"database_url"`
	MaxSessions   int    `yaml:"max_sessions"`
	CmdRatePerMin int    `yaml:"cmd_rate_per_min"`
}

func defaults() Config {
	return Config{
		HTTPAddr:    ":4723",
		Env:         "dev",
		LogLevel:    "info",
		MaxSessions: 1,
	}
}

// Load resolves the effective configuration.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.Env = getenv("ENV", cfg.Env)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseURL = getenv("DATABASE_URL", cfg.DatabaseURL)
	cfg.MaxSessions = getenvInt("MAX_SESSIONS", cfg.MaxSessions)
	cfg.CmdRatePerMin = getenvInt("CMD_RATE_PER_MIN", cfg.CmdRatePerMin)

	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = 1
	}
	return cfg, nil
}

func getenv(key, defaultValue string) string {
	v := os.Getenv(key)
	if v != "" {
		return v
	}
	return defaultValue
}

func getenvInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
