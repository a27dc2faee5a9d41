package log

import (
	"context"
	"log/slog"
	"net/http"

	"budget/internal/core"
)

type ContextKey string

const LoggerContextKey ContextKey = "logger"

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestIDMiddleware adds request ID to logger context
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := FromContext(r.Context()).With(FieldRequestID, extractRequestID(r))
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPEnd logs the completion of an HTTP request
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP).
		ToSlice()

	sl.logger.Logger.Log(ctx, level, "HTTP request completed", append([]any{FieldComponent, ComponentHTTP}, fields...)...)
}

// LogTransactionChanged logs a ledger write.
func (sl *StructuredLogger) LogTransactionChanged(ctx context.Context, op string, tx core.Transaction) {
	period := ""
	if p, ok := tx.Period(); ok {
		period = p.String()
	}
	fields := NewFields().
		WithTransaction(tx.ID, tx.Category, tx.Amount, period).
		WithOperation(op)

	sl.logger.WithComponent(ComponentLedger).InfoContext(ctx, "Transaction "+op+"d", fields.ToSlice()...)
}

// LogReportBuilt summarises a computed period report.
func (sl *StructuredLogger) LogReportBuilt(ctx context.Context, r core.Report) {
	fields := NewFields().WithOperation(OpAggregate)
	fields[FieldPeriod] = r.Period.String()
	fields[FieldIncome] = core.FormatMoney(r.Aggregate.Income)
	fields[FieldExpenses] = core.FormatMoney(r.Aggregate.Expenses)
	fields[FieldNetSavings] = core.FormatMoney(r.Aggregate.NetSavings)
	fields[FieldSavingsRate] = r.Evaluation.Rate.StringFixed(2)
	fields[FieldCompliant] = r.Evaluation.Compliant
	fields[FieldCount] = r.Aggregate.Count
	if r.Aggregate.Anomalies > 0 {
		fields[FieldAnomalies] = r.Aggregate.Anomalies
	}
	if r.Aggregate.Malformed > 0 {
		fields[FieldMalformed] = r.Aggregate.Malformed
	}

	l := sl.logger.WithComponent(ComponentReport)
	if r.Aggregate.Anomalies > 0 || r.Aggregate.Malformed > 0 {
		l.WarnContext(ctx, "Report built with data quality issues", fields.ToSlice()...)
		return
	}
	l.InfoContext(ctx, "Report built", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.WithComponent(component).ErrorContext(ctx, msg, allFields.ToSlice()...)
}
