package worker

import (
	"context"
	"strconv"
	"sync/atomic"

	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

// LogWriter is the ReportWriter used when spreadsheet export is disabled.
// Reports are only logged.
type LogWriter struct {
	logger *log.StructuredLogger
	seq    int64
}

var _ ledger.ReportWriter = (*LogWriter)(nil)

func NewLogWriter(logger *log.Logger) *LogWriter {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LogWriter{logger: log.NewStructuredLogger(logger)}
}

func (w *LogWriter) WriteReport(ctx context.Context, r core.Report) (string, error) {
	w.logger.LogReportBuilt(ctx, r)
	return "log:" + strconv.FormatInt(atomic.AddInt64(&w.seq, 1), 10), nil
}
