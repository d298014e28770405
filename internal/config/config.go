package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LogFormat     string        `validate:"oneof=text json"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
	MemoCacheSize int           `validate:"gt=0"`
	ScriptTimeout time.Duration `validate:"gt=0"`
	BridgeEnabled bool
}

// Defaults used when the environment leaves a setting unset.
const (
	DefaultLogFormat     = "text"
	DefaultLogLevel      = "info"
	DefaultMemoCacheSize = 128
	DefaultScriptTimeout = 5 * time.Second
)

var validate = validator.New()

// New loads configuration from a .env file, if present, and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MemoCacheSize: DefaultMemoCacheSize,
		ScriptTimeout: DefaultScriptTimeout,
	}

	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("MEMO_CACHE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MEMO_CACHE_SIZE: %w", err)
		}
		cfg.MemoCacheSize = size
	}
	if v := getenv("SCRIPT_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SCRIPT_TIMEOUT: %w", err)
		}
		cfg.ScriptTimeout = timeout
	}
	if v := getenv("BRIDGE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("BRIDGE_ENABLED: %w", err)
		}
		cfg.BridgeEnabled = enabled
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
