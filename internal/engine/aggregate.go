package engine

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Aggregate sums the transactions of one period by bucket.
//
// Savings transfers are totalled separately and do not reduce NetSavings:
// NetSavings is always Income - Expenses. Anomalies are excluded from every
// total and only counted. A period with no transactions yields zero totals.
func (e Engine) Aggregate(txs []core.Transaction, period core.PeriodKey) core.PeriodAggregate {
	agg := emptyAggregate(period)
	for _, tx := range txs {
		en := e.resolve(tx)
		if en.in(period) {
			accumulate(&agg, en)
		}
	}
	return finish(agg)
}

// Periods returns the distinct periods present in txs, oldest first.
// Transactions whose month or year label cannot be resolved are skipped.
func (e Engine) Periods(txs []core.Transaction) []core.PeriodKey {
	seen := make(map[core.PeriodKey]struct{})
	keys := make([]core.PeriodKey, 0)
	for _, tx := range txs {
		p, ok := tx.Period()
		if !ok {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		keys = append(keys, p)
	}
	core.SortPeriods(keys)
	return keys
}

// aggregateAll groups every transaction by period in a single pass and
// returns the aggregates oldest first.
func (e Engine) aggregateAll(txs []core.Transaction) []core.PeriodAggregate {
	byPeriod := make(map[core.PeriodKey]*core.PeriodAggregate)
	keys := make([]core.PeriodKey, 0)
	for _, tx := range txs {
		en := e.resolve(tx)
		if !en.hasPeriod {
			continue
		}
		agg, ok := byPeriod[en.period]
		if !ok {
			a := emptyAggregate(en.period)
			agg = &a
			byPeriod[en.period] = agg
			keys = append(keys, en.period)
		}
		accumulate(agg, en)
	}
	core.SortPeriods(keys)
	out := make([]core.PeriodAggregate, 0, len(keys))
	for _, k := range keys {
		out = append(out, finish(*byPeriod[k]))
	}
	return out
}

func emptyAggregate(period core.PeriodKey) core.PeriodAggregate {
	return core.PeriodAggregate{
		Period:           period,
		Income:           decimal.Zero,
		Expenses:         decimal.Zero,
		SavingsTransfers: decimal.Zero,
		NetSavings:       decimal.Zero,
	}
}

func accumulate(agg *core.PeriodAggregate, en entry) {
	agg.Count++
	if en.malformed {
		agg.Malformed++
	}
	magnitude := en.amount.Abs()
	switch en.bucket {
	case core.BucketIncome:
		agg.Income = agg.Income.Add(magnitude)
	case core.BucketExpense:
		agg.Expenses = agg.Expenses.Add(magnitude)
	case core.BucketSavingsTransfer:
		agg.SavingsTransfers = agg.SavingsTransfers.Add(magnitude)
	default:
		agg.Anomalies++
	}
}

func finish(agg core.PeriodAggregate) core.PeriodAggregate {
	agg.NetSavings = agg.Income.Sub(agg.Expenses)
	return agg
}
