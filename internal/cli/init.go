// Package cli holds the initialization and invocation helpers shared by
// cmd/computesales, cmd/sales-history and cmd/sales-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"computesales/internal/amqp"
	"computesales/internal/config"
	applog "computesales/internal/log"
	"computesales/internal/storage"
)

// SetupLogger builds the process logger from cfg and makes it the slog
// default. Logs go to stderr so stdout only carries the run summary.
func SetupLogger(cfg *config.Config) *applog.Logger {
	logger := applog.New(applog.Config{
		Component: applog.ComponentCLI,
		Handler:   applog.NewHandler(os.Stderr, applog.ParseLevel(cfg.LogLevel), cfg.LogFormat),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		bootstrap := applog.New(applog.DefaultConfig())
		bootstrap.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(ExitFailure)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", dbPath)
		os.Exit(ExitFailure)
	}
	return repo
}

// OpenHistory opens the run history when cfg enables it. A failure is
// logged and the run continues without history.
func OpenHistory(logger *applog.Logger, cfg *config.Config) *storage.SQLiteRepository {
	if !cfg.HistoryEnabled() {
		return nil
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Warn("Run history unavailable",
			applog.FieldOperation, applog.OpStartup,
			"path", cfg.SQLiteDBPath,
			applog.FieldError, err)
		return nil
	}
	return repo
}

// OpenPublisher connects the run-completed publisher when AMQP_URL is set.
// A failure is logged and the run continues without publishing.
func OpenPublisher(logger *applog.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Run publishing unavailable",
			applog.FieldOperation, applog.OpStartup,
			applog.FieldError, err)
		return nil
	}
	return client
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
// cleanup must only capture values that exist before the call.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return shutdownOn(sigChan, logger, timeout, cleanup)
}

func shutdownOn(sigChan <-chan os.Signal, logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), applog.FieldOperation, applog.OpShutdown)

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup ran.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
