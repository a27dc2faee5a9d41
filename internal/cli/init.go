// Package cli holds the start-up and shutdown steps shared by cmd/budget
// and cmd/budget-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"budget/internal/config"
	"budget/internal/engine"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/services"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default so package-level slog calls share the handler.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: component,
		JSON:      cfg.LogFormat == "json",
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and its logger. The process
// exits when validation fails.
func LoadAndValidateConfig(component string) (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg, logger
}

// NewReportService wires the aggregation engine with the configured labels,
// minimum savings rate and budget limits.
func NewReportService(cfg *config.Config, store ledger.Store, logger *log.Logger) (*services.ReportService, error) {
	taxonomy, err := cfg.Taxonomy()
	if err != nil {
		return nil, fmt.Errorf("build taxonomy: %w", err)
	}
	return services.NewReportService(store, store, engine.New(taxonomy), services.ReportConfig{
		MinimumRate: cfg.MinimumSavingsRate,
		Limits:      cfg.Limits(),
	}, logger), nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Shutdown runs every step with a shared deadline and returns all failures.
// Steps run in order and a failing step does not stop the rest.
func Shutdown(logger *log.Logger, timeout time.Duration, steps ...func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var result *multierror.Error
	for _, step := range steps {
		if step == nil {
			continue
		}
		if err := step(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if ctx.Err() != nil {
		logger.Warn("Shutdown timeout reached", "timeout", timeout.String())
	}
	if err := result.ErrorOrNil(); err != nil {
		logger.Error("Shutdown completed with errors", log.FieldError, err.Error())
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}
