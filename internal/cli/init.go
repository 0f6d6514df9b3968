// Package cli holds the initialization steps shared by the server and
// worker binaries.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tally/internal/config"
	applog "tally/internal/log"
	"tally/internal/storage"
)

// SetupLogger builds the root logger, honouring LOG_LEVEL, and installs
// it as the slog default.
func SetupLogger(component string) *applog.Logger {
	logger := applog.New(component, applog.ParseLevel(os.Getenv("LOG_LEVEL")))
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Absence is not
// an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and exits the process when
// it does not validate.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenRegistry builds the shard registry over the configured data
// directory.
func OpenRegistry(cfg *config.Config) *storage.Registry {
	return storage.NewRegistry(cfg.DataDir)
}

// OpenUserStore opens the global identity database or exits the process.
func OpenUserStore(logger *applog.Logger, path string) *storage.UserStore {
	users, err := storage.OpenUserStore(path)
	if err != nil {
		logger.Error("Failed to open users database", "error", err, "path", path)
		os.Exit(1)
	}
	return users
}

// GracefulShutdown returns a context cancelled on SIGINT/SIGTERM. The
// cleanup hook runs before cancellation, bounded by timeout; done closes
// once cleanup has finished.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the shutdown sequence has run.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
