// Package config loads runtime settings from environment variables.
// All variables use the LUMEN_ prefix.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	DBPath       string
	Log          LogConfig
	TickInterval time.Duration
	Debug        string // comma-separated debug transformations
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	Mode  string // "dev" or "prod"
	File  string
}

// Load reads configuration from environment variables with LUMEN_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath: envStr("LUMEN_DB", ""),
		Log: LogConfig{
			Level: envStr("LUMEN_LOG_LEVEL", "info"),
			Mode:  envStr("LUMEN_LOG_MODE", "prod"),
			File:  envStr("LUMEN_LOG_FILE", ""),
		},
		TickInterval: time.Duration(envInt("LUMEN_TICK_INTERVAL_MS", 1000)) * time.Millisecond,
		Debug:        envStr("LUMEN_DEBUG", ""),
	}
	if envBool("LUMEN_VERBOSE", false) {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// LoadDotEnv copies variables from an env file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LUMEN_LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Mode) {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("LUMEN_LOG_MODE must be 'dev' or 'prod', got %q", c.Log.Mode)
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("LUMEN_TICK_INTERVAL_MS must be positive, got %s", c.TickInterval)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
