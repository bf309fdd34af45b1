package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ledgerly/internal/amqp"
	"ledgerly/internal/cli"
	"ledgerly/internal/log"
	"ledgerly/internal/services"
	"ledgerly/internal/sheets"
	gsheet "ledgerly/internal/sheets/google"
	mem "ledgerly/internal/sheets/memory"
	"ledgerly/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting ledgerly-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	medium, err := cli.OpenMedium(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open medium", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" || cfg.DataBackend == "none" {
		logger.Warn("The worker cannot see the server's ledger with a process-local backend", log.FieldBackend, cfg.DataBackend)
	}

	// Mirror to Google Sheets when configured, otherwise into memory so the
	// worker can still be run as a dry run.
	var (
		txMirror  sheets.TransactionMirror
		catMirror sheets.CategoryMirror
	)
	sheetsLogger := logger.WithComponent(log.ComponentSheets).Slog()
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		}, sheetsLogger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		txMirror, catMirror = client, client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		store := mem.New()
		txMirror, catMirror = store, store
		logger.Info("Google Sheets disabled - mirroring into memory (no GOOGLE_SPREADSHEET_ID provided)")
	}

	syncWorker := worker.NewSyncWorker(medium.Medium, txMirror, catMirror, logger.WithComponent(log.ComponentWorker).Slog())

	// Periodic sync catches anything a missed message would leave behind.
	processor := services.NewSyncProcessor(syncWorker, services.SyncProcessorConfig{
		PollInterval: cfg.SyncInterval,
	}, logger.WithComponent(log.ComponentWorker).Slog())

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP).Slog())
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
	} else {
		logger.Info("Skipping AMQP message consumption - relying on periodic sync", "interval", cfg.SyncInterval)
	}

	runCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		logger.Info("Shutting down worker...", log.FieldOperation, log.OpShutdown)
		if err := processor.Stop(ctx); err != nil {
			logger.Error("Failed to stop sync processor", log.FieldError, err)
		}
		if events != nil {
			if err := events.Close(); err != nil {
				logger.Error("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if medium.Cleanup != nil {
			if err := medium.Cleanup(); err != nil {
				logger.Error("Failed to close medium", log.FieldError, err)
			}
		}
	})

	if err := processor.Start(runCtx); err != nil {
		logger.Error("Failed to start sync processor", log.FieldError, err)
		os.Exit(1)
	}

	if events != nil {
		go func() {
			err := events.ConsumeChanges(runCtx, syncWorker.HandleChange)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", log.FieldError, err)
			}
		}()
	}

	cli.WaitForShutdown(runCtx, done)
	stats := processor.Stats()
	logger.Info("Worker stopped",
		"runs", stats.Runs,
		"failures", stats.Failures,
		log.FieldVersion, syncWorker.LastVersion())
}
