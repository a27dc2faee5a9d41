package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/ledger"
	"budget/internal/log"
	gsheet "budget/internal/sheets/google"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)
	logger.Info("Starting budget-worker")

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	// The worker only reads the ledger; it consumes events instead of
	// publishing them.
	beCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	beCfg.AMQPURL = ""
	be, err := backend.NewFactory(logger).CreateBackend(ctx, beCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err.Error())
		os.Exit(1)
	}

	reports, err := cli.NewReportService(cfg, be.Store, logger)
	if err != nil {
		logger.Error("Failed to initialize report service", log.FieldError, err.Error())
		_ = be.Cleanup()
		os.Exit(1)
	}

	var writer ledger.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err.Error())
			_ = be.Cleanup()
			os.Exit(1)
		}
		writer = sheets
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleReportSheet)
	} else {
		writer = worker.NewLogWriter(logger.WithComponent(log.ComponentReport))
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, reports are logged only")
	}

	var consumer *amqp.Client
	if cfg.AMQPURL != "" {
		consumer, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
			_ = be.Cleanup()
			os.Exit(1)
		}
	} else {
		logger.Info("AMQP disabled - relying on periodic export only")
	}

	w := worker.NewReportWorker(reports, writer)

	logger.Info("Performing startup export")
	if err := w.StartupExport(ctx); err != nil {
		logger.Error("Startup export failed", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeLedgerChanged(gctx, w.HandleLedgerChanged)
		})
	}
	g.Go(func() error {
		return w.Run(gctx, cfg.ReportInterval)
	})

	exitCode := 0
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err.Error())
		exitCode = 1
	}

	steps := []func(context.Context) error{
		func(context.Context) error { return be.Cleanup() },
	}
	if consumer != nil {
		steps = append(steps, func(context.Context) error { return consumer.Close() })
	}
	if err := cli.Shutdown(logger, 10*time.Second, steps...); err != nil {
		exitCode = 1
	}
	os.Exit(exitCode)
}
