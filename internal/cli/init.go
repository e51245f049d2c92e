// Package cli provides common CLI initialization utilities shared by
// cmd/moneymanager and cmd/ledger-worker.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneymanager/internal/backend"
	"moneymanager/internal/config"
	"moneymanager/internal/log"
)

// SetupLogger builds a text logger for component and makes it the default.
func SetupLogger(level slog.Level, component string) *log.Logger {
	logger := log.New(log.Config{Level: level, Component: component})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, sets up the default logger at
// the configured level and validates. It exits the process on failure.
func LoadAndValidateConfig(component string) (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg.SlogLevel(), component)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg, logger
}

// InitBackend opens the configured key/value store. It exits the process
// on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (backend.Config, *backend.BackendResult) {
	bcfg, res, err := OpenBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend",
			log.FieldError, err.Error(),
			"backend", cfg.DataBackend)
		os.Exit(1)
	}
	return bcfg, res
}

// OpenBackend is InitBackend without the exit.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (backend.Config, *backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return backend.Config{}, nil, fmt.Errorf("backend config: %w", err)
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentStorage).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return backend.Config{}, nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}
	return bcfg, res, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// On SIGINT or SIGTERM the returned context is cancelled, then cleanup runs
// with a context bounded by timeout. done is closed once cleanup returns.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return shutdownOn(sigChan, logger, timeout, cleanup)
}

func shutdownOn(sigChan <-chan os.Signal, logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
