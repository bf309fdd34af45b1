package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"ledgerly/internal/cli"
	"ledgerly/internal/command"
	"ledgerly/internal/insight"
	"ledgerly/internal/log"
	"ledgerly/internal/metrics"
)

func main() {
	cli.LoadEnvFile()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}
	logger := cli.SetupLogger(logLevel).WithComponent(log.ComponentCLI)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	flag.Parse()

	cfg := cli.LoadAndValidateConfig(logger)
	ctx := context.Background()

	ldg, err := cli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	policy, err := metrics.ParsePolicy(cfg.MetricsSpentTypes)
	if err != nil {
		logger.Error("Invalid metrics policy", log.FieldError, err)
		os.Exit(1)
	}
	insights, err := insight.NewServiceFromConfig(ctx, cfg, logger.WithComponent(log.ComponentInsight).Slog())
	if err != nil {
		logger.Error("Failed to initialize insight provider", log.FieldError, err)
		os.Exit(1)
	}

	command.Register(commander, &command.App{
		Repo:     ldg.Repo,
		Insights: insights,
		Policy:   policy,
		Period:   cfg.MetricsPeriod,
		Logger:   logger.Slog(),
	})

	status := commander.Execute(ctx)
	if err := ldg.Close(); err != nil {
		logger.Error("Failed to close ledger", log.FieldError, err)
	}
	os.Exit(int(status))
}
