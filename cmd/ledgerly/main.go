package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ledgerly/internal/cache"
	"ledgerly/internal/cli"
	"ledgerly/internal/config"
	apphttp "ledgerly/internal/http"
	"ledgerly/internal/insight"
	"ledgerly/internal/log"
	"ledgerly/internal/metrics"
	"ledgerly/internal/middleware/ratelimit"
	"ledgerly/internal/middleware/security"
	"ledgerly/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
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
	dashCfg := services.DefaultDashboardConfig()
	dashCfg.Period = cfg.MetricsPeriod
	dashCfg.Policy = policy
	dashboard := services.NewDashboardService(ldg.Repo, dashCfg, logger.Slog())

	cacheManager := cache.NewManager(logger.WithComponent(log.ComponentCache).Slog())
	cacheManager.Register(dashboard.Cleaner())
	cacheManager.StartCleanup(10 * time.Minute)

	insights, err := insight.NewServiceFromConfig(ctx, cfg, logger.WithComponent(log.ComponentInsight).Slog())
	if err != nil {
		logger.Error("Failed to initialize insight provider", log.FieldError, err, log.FieldProvider, cfg.InsightProvider)
		os.Exit(1)
	}

	proxies := config.SplitList(cfg.TrustedProxies)
	clientIP, err := security.NewClientIPResolver(proxies...)
	if err != nil {
		logger.Error("Invalid trusted proxies", log.FieldError, err)
		os.Exit(1)
	}
	logger.WithComponent(log.ComponentSecurity).Info("Client IP resolution configured", "extra_trusted_proxies", proxies)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Repo:         ldg.Repo,
		Transactions: services.NewTransactionService(ldg.Repo, logger.WithComponent(log.ComponentLedger).Slog()),
		Dashboard:    dashboard,
		Insights:     insights,
		Logger:       logger,
		ClientIP:     clientIP,
		InsightLimit: ratelimit.Config{Requests: cfg.InsightRateLimit, Window: time.Minute},
	})

	// Configure server timeouts and limits. Insight calls can take a while.
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = cfg.InsightTimeout + 10*time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cacheManager.Stop()
		if err := ldg.Close(); err != nil {
			logger.Error("Failed to close ledger", log.FieldError, err)
		}
	})

	logger.Info("Starting ledgerly server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldProvider, cfg.InsightProvider,
		"change_events", ldg.Events != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		_ = ldg.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
