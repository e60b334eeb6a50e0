package config

import (
	"os"
	"strconv"

	"parquetry/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Paths   PathConfig
	Convert ConvertConfig
	History HistoryConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds the working directories for uploads and converted output
type PathConfig struct {
	UploadDir string
	OutputDir string
}

// ConvertConfig holds conversion engine settings
type ConvertConfig struct {
	MaxWorkers int // 0 means min(CPU count, file count)
}

// HistoryConfig holds conversion history settings
type HistoryConfig struct {
	File        string // JSON file store path
	DatabaseURL string // when set, history goes to Postgres instead
	MaxEntries  int
}

// Load builds configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8000"),
		},
		Paths: PathConfig{
			UploadDir: getEnvOrDefault("UPLOAD_DIR", "uploads"),
			OutputDir: getEnvOrDefault("OUT_DIR", "converted"),
		},
		Convert: ConvertConfig{
			MaxWorkers: getEnvIntOrDefault("MAX_WORKERS", 0),
		},
		History: HistoryConfig{
			File:        getEnvOrDefault("HISTORY_FILE", "history.json"),
			DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
			MaxEntries:  getEnvIntOrDefault("HISTORY_MAX_ENTRIES", 50),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if cfg.Convert.MaxWorkers < 0 {
		return errors.ConfigInvalid("MAX_WORKERS cannot be negative")
	}
	if cfg.History.MaxEntries <= 0 {
		return errors.ConfigInvalid("HISTORY_MAX_ENTRIES must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
