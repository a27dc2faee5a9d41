package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/engine"
	"budget/internal/ledger"
	"budget/internal/log"
)

// ReportConfig carries the household rules applied to every report.
type ReportConfig struct {
	MinimumRate float64
	Limits      []core.BudgetLimit
}

// ReportService snapshots the ledger and runs the engine over it.
type ReportService struct {
	txs    ledger.TransactionLister
	goals  ledger.GoalLister
	engine engine.Engine
	cfg    ReportConfig
	logger *log.StructuredLogger
	now    func() time.Time
	cache  cache.Cache[core.Report]

	// cacheMu orders Invalidate against cache writes. gen counts
	// invalidations; a report is cached only if no write landed since
	// its snapshot was taken.
	cacheMu sync.Mutex
	gen     uint64
}

func NewReportService(txs ledger.TransactionLister, goals ledger.GoalLister, eng engine.Engine, cfg ReportConfig, logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReportService{
		txs:    txs,
		goals:  goals,
		engine: eng,
		cfg:    cfg,
		logger: log.NewStructuredLogger(logger),
		now:    time.Now,
	}
}

// UseCache keeps built reports in c, keyed by period. Call Invalidate after
// every ledger write.
func (s *ReportService) UseCache(c cache.Cache[core.Report]) {
	s.cache = c
}

// Invalidate drops every cached report. Any write can change the series
// and goal progress of every period, so nothing is kept.
func (s *ReportService) Invalidate() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen++
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *ReportService) generation() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.gen
}

func (s *ReportService) cached(period core.PeriodKey) (core.Report, bool) {
	if s.cache == nil {
		return core.Report{}, false
	}
	return s.cache.Get(period.String())
}

// build runs the engine and caches the result unless the ledger changed
// after generation gen.
func (s *ReportService) build(ctx context.Context, txs []core.Transaction, goals []core.Goal, period core.PeriodKey, gen uint64) core.Report {
	r := s.engine.Report(txs, goals, period, s.options())
	s.logger.LogReportBuilt(ctx, r)

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cache != nil && s.gen == gen {
		s.cache.Set(period.String(), r)
	}
	return r
}

// snapshot loads transactions and goals concurrently.
func (s *ReportService) snapshot(ctx context.Context) ([]core.Transaction, []core.Goal, error) {
	var (
		txs   []core.Transaction
		goals []core.Goal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txs.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		goals, err = s.goals.ListGoals(gctx)
		if err != nil {
			return fmt.Errorf("list goals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txs, goals, nil
}

func (s *ReportService) options() engine.ReportOptions {
	return engine.ReportOptions{
		MinimumRate: s.cfg.MinimumRate,
		Limits:      s.cfg.Limits,
		Now:         s.now().UTC(),
	}
}

// Report builds the full report for one period.
func (s *ReportService) Report(ctx context.Context, period core.PeriodKey) (core.Report, error) {
	if period.IsZero() {
		return core.Report{}, core.ErrInvalidPeriod
	}
	if r, ok := s.cached(period); ok {
		return r, nil
	}
	gen := s.generation()
	txs, goals, err := s.snapshot(ctx)
	if err != nil {
		return core.Report{}, err
	}
	return s.build(ctx, txs, goals, period, gen), nil
}

// LatestReport reports on the most recent period with data, or the current
// calendar month when the ledger is empty.
func (s *ReportService) LatestReport(ctx context.Context) (core.Report, error) {
	gen := s.generation()
	txs, goals, err := s.snapshot(ctx)
	if err != nil {
		return core.Report{}, err
	}
	period := s.engine.LatestPeriod(txs, core.PeriodOf(s.now()))
	if r, ok := s.cached(period); ok {
		return r, nil
	}
	return s.build(ctx, txs, goals, period, gen), nil
}

// Periods lists every period present in the ledger, oldest first.
func (s *ReportService) Periods(ctx context.Context) ([]core.PeriodKey, error) {
	txs, err := s.txs.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.engine.Periods(txs), nil
}

// Breakdown returns expense totals by category for period, or for all time
// when period is nil.
func (s *ReportService) Breakdown(ctx context.Context, period *core.PeriodKey) ([]core.CategoryTotal, error) {
	txs, err := s.txs.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.engine.Breakdown(txs, period), nil
}

// GoalProgress measures a specific goal, or the active one when id is empty.
// ok is false when there is no such goal.
func (s *ReportService) GoalProgress(ctx context.Context, id string) (core.GoalProgress, bool, error) {
	txs, goals, err := s.snapshot(ctx)
	if err != nil {
		return core.GoalProgress{}, false, err
	}
	var goal core.Goal
	found := false
	if id == "" {
		goal, found = engine.ActiveGoal(goals)
	} else {
		for _, g := range goals {
			if g.ID == id {
				goal, found = g, true
				break
			}
		}
	}
	if !found {
		return core.GoalProgress{}, false, nil
	}
	return s.engine.Progress(txs, goal), true, nil
}
