// Package cli provides the initialization steps shared by the commands:
// environment, logging, configuration and storage backend.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finproject/internal/backend"
	"finproject/internal/config"
	"finproject/internal/log"
)

// exit is swapped in tests.
var exit = os.Exit

// LoadEnvFile loads .env files for local development. A missing file is not
// an error; variables already set in the environment win.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// SetupLogger builds the application logger for the given LOG_LEVEL value and
// installs it as the slog default. An unknown level falls back to info.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	lvl, err := log.ParseLevel(level)
	cfg.Level = lvl

	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Invalid log level, using info", log.FieldError, err)
	}
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		exit(1)
		return nil
	}
	return cfg
}

// InitBackend opens the configured storage slot and, if set up, the event
// publisher. Exits the process when storage cannot be opened.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		exit(1)
		return nil
	}

	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Slog()).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend",
			log.FieldError, err,
			log.FieldBackend, bcfg.Type.String())
		exit(1)
		return nil
	}
	return res
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
