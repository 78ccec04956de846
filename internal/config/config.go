// Package config loads CLI configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the CLIs.
type Config struct {
	// Storage
	PostgresDSN   string
	ClickhouseDSN string
	UseMemory     bool

	// Simulation
	StartingCapital float64

	// Logging
	Logging LoggingConfig
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level      string
	Format     string // text or json
	Output     string // stdout, file or both
	Directory  string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		UseMemory:     getEnvBool("USE_MEMORY_STORAGE", false),
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			Directory:  getEnv("LOG_DIR", "logs"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 14),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
	}

	capitalStr := getEnv("STARTING_CAPITAL", "50000")
	capital, err := strconv.ParseFloat(capitalStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_CAPITAL: %v", err)
	}
	if capital <= 0 {
		return nil, fmt.Errorf("STARTING_CAPITAL must be > 0")
	}
	cfg.StartingCapital = capital

	// DSNs stay optional here: purely file-based runs never open a store.
	// Commands that do require one check before connecting.
	return cfg, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns an integer environment variable or a default.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvBool returns a boolean environment variable or a default.
func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
