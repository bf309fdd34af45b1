// Package cli provides common CLI initialization utilities shared by
// cmd/ledgerly, cmd/ledgerly-worker and cmd/ledgerctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledgerly/internal/amqp"
	"ledgerly/internal/backend"
	"ledgerly/internal/config"
	"ledgerly/internal/kv"
	"ledgerly/internal/ledger"
	"ledgerly/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the given LOG_LEVEL and
// installs it as the default logger.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenMedium creates the persistence medium selected by DATA_BACKEND.
func OpenMedium(ctx context.Context, cfg *config.Config, logger *log.Logger) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Slog())
	return factory.CreateMedium(ctx, bcfg)
}

// Ledger bundles a repository with the resources it was opened with.
type Ledger struct {
	Repo   *ledger.Repository
	Medium kv.Medium
	// Events is nil when AMQP_URL is empty.
	Events *amqp.Client

	closers []func() error
}

// OpenLedger opens the medium, connects the change-event publisher when
// AMQP is configured and restores the repository.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Ledger, error) {
	res, err := OpenMedium(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	l := &Ledger{Medium: res.Medium}
	if res.Cleanup != nil {
		l.closers = append(l.closers, res.Cleanup)
	}

	opts := []ledger.Option{
		ledger.WithCurrency(cfg.DefaultCurrency),
		ledger.WithLogger(logger.WithComponent(log.ComponentLedger).Slog()),
		ledger.WithStorageLogger(logger.WithComponent(log.ComponentStorage).Slog()),
	}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			logger.WithComponent(log.ComponentAMQP).Slog())
		if err != nil {
			_ = l.Close()
			return nil, fmt.Errorf("connect change events: %w", err)
		}
		l.Events = client
		l.closers = append(l.closers, client.Close)
		opts = append(opts, ledger.WithNotifier(client))
		logger.Info("Change events enabled", "exchange", cfg.AMQPExchange)
	}

	l.Repo = ledger.NewRepository(ctx, res.Medium, opts...)
	return l, nil
}

// Close releases everything in reverse opening order.
func (l *Ledger) Close() error {
	var errs []error
	for i := len(l.closers) - 1; i >= 0; i-- {
		errs = append(errs, l.closers[i]())
	}
	l.closers = nil
	return errors.Join(errs...)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when cleanup is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup has
// finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
