package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"budget/internal/backend"
	"budget/internal/cache"
	"budget/internal/cli"
	"budget/internal/core"
	apphttp "budget/internal/http"
	"budget/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	beCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	be, err := backend.NewFactory(logger).CreateBackend(ctx, beCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err.Error(), "backend", cfg.DataBackend)
		os.Exit(1)
	}

	reports, err := cli.NewReportService(cfg, be.Store, logger)
	if err != nil {
		logger.Error("Failed to initialize report service", log.FieldError, err.Error())
		_ = be.Cleanup()
		os.Exit(1)
	}

	reportCache := cache.NewLRUCache[core.Report](100, 5*time.Minute)
	reports.UseCache(reportCache)
	be.Ledger.OnChange(reports.Invalidate)
	cacheManager := cache.NewManager()
	cacheManager.Register(reportCache)
	cacheManager.StartCleanup(10 * time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, be.Ledger, reports, logger)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting budget server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"change_events", be.EventsEnabled,
			"minimum_savings_rate", cfg.MinimumSavingsRate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
			exitCode = 1
		}
	}

	if err := cli.Shutdown(logger, 30*time.Second,
		srv.Shutdown,
		func(context.Context) error {
			cacheManager.Stop()
			return nil
		},
		func(context.Context) error { return be.Cleanup() },
	); err != nil {
		exitCode = 1
	}
	os.Exit(exitCode)
}
