package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"tally/internal/amqp"
	"tally/internal/auth"
	"tally/internal/cli"
	apphttp "tally/internal/http"
	applog "tally/internal/log"
	"tally/internal/service"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	logger.Info("Starting tally server")

	cfg := cli.LoadAndValidateConfig(logger)

	users := cli.OpenUserStore(logger, cfg.UsersDBPath)
	defer users.Close()

	registry := cli.OpenRegistry(cfg)

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP event bus connected", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	server := apphttp.NewServer(":"+cfg.Port, registry,
		service.NewCategoryService(registry),
		service.NewTransactionService(registry, events),
		auth.NewStoreProvider(users),
		logger)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
		if events != nil {
			if err := events.Close(); err != nil {
				logger.Error("AMQP close failed", "error", err)
			}
		}
		if err := registry.CloseAll(); err != nil {
			logger.Error("Registry close failed", "error", err)
		}
	})

	logger.Info("HTTP server listening", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Shutdown complete")
}
