package google

import (
	"time"

	"budget/internal/core"
)

var reportColumns = []string{
	"Period", "Income", "Expenses", "Savings transfers", "Net savings",
	"Savings rate %", "Minimum rate %", "Compliant",
	"Goal", "Goal saved", "Goal %", "Anomalies", "Malformed", "Generated at",
}

func headerRow() []any {
	out := make([]any, len(reportColumns))
	for i, c := range reportColumns {
		out[i] = c
	}
	return out
}

// reportRow flattens a report into one sheet row. Amounts are plain decimal
// strings so USER_ENTERED turns them into numbers; the rate is sent as a
// number already.
func reportRow(r core.Report) []any {
	agg := r.Aggregate
	goalName, goalSaved, goalPct := "", "", ""
	if r.Goal != nil {
		goalName = r.Goal.Name
		goalSaved = r.Goal.TotalSaved.StringFixed(2)
		goalPct = r.Goal.Percent.StringFixed(2)
	}
	generated := ""
	if !r.GeneratedAt.IsZero() {
		generated = r.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return []any{
		r.Period.String(),
		agg.Income.StringFixed(2),
		agg.Expenses.StringFixed(2),
		agg.SavingsTransfers.StringFixed(2),
		agg.NetSavings.StringFixed(2),
		r.Evaluation.RateFloat(),
		r.Evaluation.MinimumRate.StringFixed(2),
		r.Evaluation.Compliant,
		goalName,
		goalSaved,
		goalPct,
		agg.Anomalies,
		agg.Malformed,
		generated,
	}
}
