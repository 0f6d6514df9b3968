package main

import (
	"context"
	"errors"
	"os"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/export"
	"tally/internal/export/google"
	"tally/internal/export/memory"
	applog "tally/internal/log"
	"tally/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting tally-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	registry := cli.OpenRegistry(cfg)
	defer func() {
		if err := registry.CloseAll(); err != nil {
			logger.Error("Registry close failed", "error", err)
		}
	}()

	var (
		writer  export.RowWriter
		deleter export.RowDeleter
	)
	if cfg.SpreadsheetID != "" {
		client, err := google.New(context.Background(), cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer, deleter = client, client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.SpreadsheetID, "sheet", cfg.SheetName)
	} else {
		sink := memory.New()
		writer, deleter = sink, sink
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided - exporting to in-memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(registry, writer, deleter)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
			return exportWorker.HandleEvent(ctx, event)
		})
	}()

	select {
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Shutdown complete")
}
