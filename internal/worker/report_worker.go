package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ledger"
)

// Reporter builds a report for a period. *services.ReportService implements it.
type Reporter interface {
	Report(ctx context.Context, period core.PeriodKey) (core.Report, error)
	Periods(ctx context.Context) ([]core.PeriodKey, error)
}

// ReportWorker rebuilds period reports after ledger changes and exports them.
type ReportWorker struct {
	reports Reporter
	writer  ledger.ReportWriter
	now     func() time.Time
}

func NewReportWorker(reports Reporter, writer ledger.ReportWriter) *ReportWorker {
	return &ReportWorker{
		reports: reports,
		writer:  writer,
		now:     time.Now,
	}
}

// HandleLedgerChanged processes a single ledger-changed message from AMQP.
func (w *ReportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	period, err := msg.Period()
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Processing ledger change",
		"operation", msg.Operation,
		"transaction_id", msg.TransactionID,
		"period", period.String())

	_, err = w.ExportPeriod(ctx, period)
	return err
}

// ExportPeriod builds and writes the report for period, returning the
// writer's reference.
func (w *ReportWorker) ExportPeriod(ctx context.Context, period core.PeriodKey) (string, error) {
	r, err := w.reports.Report(ctx, period)
	if err != nil {
		return "", fmt.Errorf("build report %s: %w", period, err)
	}
	ref, err := w.writer.WriteReport(ctx, r)
	if err != nil {
		return "", fmt.Errorf("write report %s: %w", period, err)
	}

	slog.InfoContext(ctx, "Exported period report",
		"period", period.String(),
		"ref", ref,
		"compliant", r.Evaluation.Compliant)
	return ref, nil
}

// ExportCurrent exports the current calendar month. It is the periodic
// backstop for lost messages.
func (w *ReportWorker) ExportCurrent(ctx context.Context) error {
	_, err := w.ExportPeriod(ctx, core.PeriodOf(w.now()))
	return err
}

// StartupExport exports every period in the ledger once, logging failures
// and carrying on.
func (w *ReportWorker) StartupExport(ctx context.Context) error {
	periods, err := w.reports.Periods(ctx)
	if err != nil {
		return fmt.Errorf("list periods for startup export: %w", err)
	}
	if len(periods) == 0 {
		slog.InfoContext(ctx, "No periods found on startup")
		return nil
	}

	successCount, errorCount := 0, 0
	for _, p := range periods {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := w.ExportPeriod(ctx, p); err != nil {
			slog.ErrorContext(ctx, "Startup export failed", "period", p.String(), "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(periods),
		"success", successCount,
		"errors", errorCount)
	return nil
}

// Run calls ExportCurrent every interval until ctx is done.
func (w *ReportWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportCurrent(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}
