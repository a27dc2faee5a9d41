package engine

import (
	"time"

	"budget/internal/core"
)

// ReportOptions tunes Report. The zero value uses DefaultMinimumRate, no
// budget limits and a zero GeneratedAt.
type ReportOptions struct {
	MinimumRate float64
	Limits      []core.BudgetLimit
	Now         time.Time
}

// Report runs the whole pipeline for one period over an in-memory snapshot.
func (e Engine) Report(txs []core.Transaction, goals []core.Goal, period core.PeriodKey, opts ReportOptions) core.Report {
	agg := e.Aggregate(txs, period)
	r := core.Report{
		Period:      period,
		Aggregate:   agg,
		Evaluation:  Evaluate(agg, opts.MinimumRate),
		Breakdown:   e.Breakdown(txs, &period),
		Series:      e.Series(txs, opts.MinimumRate),
		Cumulative:  e.CumulativeSavings(txs),
		GeneratedAt: opts.Now,
	}
	if len(opts.Limits) > 0 {
		r.Budgets = e.BudgetUsage(txs, period, opts.Limits)
	}
	if goal, ok := ActiveGoal(goals); ok {
		progress := e.Progress(txs, goal)
		r.Goal = &progress
	}
	return r
}

// LatestPeriod returns the most recent period present in txs, or fallback
// when none resolves.
func (e Engine) LatestPeriod(txs []core.Transaction, fallback core.PeriodKey) core.PeriodKey {
	periods := e.Periods(txs)
	if len(periods) == 0 {
		return fallback
	}
	return periods[len(periods)-1]
}
