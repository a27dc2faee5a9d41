package engine

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Breakdown totals expenses by category, largest first. Ties keep the order
// in which categories first appear. A nil period covers all time. Income,
// savings transfers, anomalies and zero amounts are left out.
func (e Engine) Breakdown(txs []core.Transaction, period *core.PeriodKey) []core.CategoryTotal {
	index := make(map[string]int)
	out := make([]core.CategoryTotal, 0)
	for _, tx := range txs {
		en := e.resolve(tx)
		if en.bucket != core.BucketExpense || en.amount.IsZero() {
			continue
		}
		if period != nil && !en.in(*period) {
			continue
		}
		key := strings.ToLower(en.category)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, core.CategoryTotal{Category: en.category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(en.amount.Abs())
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// BudgetUsage compares a period's spending per category with the configured
// limits, in the order the limits are given.
func (e Engine) BudgetUsage(txs []core.Transaction, period core.PeriodKey, limits []core.BudgetLimit) []core.CategoryBudget {
	spent := make(map[string]decimal.Decimal)
	for _, ct := range e.Breakdown(txs, &period) {
		spent[strings.ToLower(ct.Category)] = ct.Total
	}
	out := make([]core.CategoryBudget, 0, len(limits))
	for _, l := range limits {
		s, ok := spent[strings.ToLower(strings.TrimSpace(l.Category))]
		if !ok {
			s = decimal.Zero
		}
		out = append(out, core.CategoryBudget{
			Category: l.Category,
			Limit:    l.Limit,
			Spent:    s,
			Percent:  core.Percent(s, l.Limit),
			Over:     s.GreaterThan(l.Limit),
		})
	}
	return out
}
