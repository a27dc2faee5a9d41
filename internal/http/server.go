// Package http exposes the ledger and its reports as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
)

// LedgerAPI is the write side. *services.LedgerService implements it.
type LedgerAPI interface {
	ListTransactions(ctx context.Context, period *core.PeriodKey) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, upd core.TransactionUpdate) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	ListGoals(ctx context.Context) ([]core.Goal, error)
	GetGoal(ctx context.Context, id string) (core.Goal, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, id string, upd core.GoalUpdate) (core.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// ReportAPI is the read side. *services.ReportService implements it.
type ReportAPI interface {
	Report(ctx context.Context, period core.PeriodKey) (core.Report, error)
	LatestReport(ctx context.Context) (core.Report, error)
	Periods(ctx context.Context) ([]core.PeriodKey, error)
	Breakdown(ctx context.Context, period *core.PeriodKey) ([]core.CategoryTotal, error)
	GoalProgress(ctx context.Context, id string) (core.GoalProgress, bool, error)
}

// Server wraps http.Server with the API routes and their middleware.
type Server struct {
	http.Server
	ledger  LedgerAPI
	reports ReportAPI
	logger  *log.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger LedgerAPI, reports ReportAPI, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		ledger:   ledger,
		reports:  reports,
		logger:   logger,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: detector,
		tracer:   trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals/progress", s.handleGoalProgress)
	mux.HandleFunc("GET /api/goals/{id}", s.handleGetGoal)
	mux.HandleFunc("PATCH /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/periods", s.handlePeriods)
	mux.HandleFunc("GET /api/breakdown", s.handleBreakdown)

	var h http.Handler = mux
	h = s.limiter.Middleware(detector.ExtractClientIP, ratelimit.WritesOnly, onRateLimit)(h)
	h = detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	s.Handler = h

	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded, please try again later"})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks that the ledger store answers within a short deadline.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.ledger.ListGoals(ctx); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Readiness check failed", log.FieldError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
