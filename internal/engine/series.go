package engine

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Series returns one evaluated aggregate per period present in txs, oldest
// first.
func (e Engine) Series(txs []core.Transaction, minimumRate float64) []core.PeriodSummary {
	aggs := e.aggregateAll(txs)
	out := make([]core.PeriodSummary, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, core.PeriodSummary{
			PeriodAggregate: agg,
			Evaluation:      Evaluate(agg, minimumRate),
		})
	}
	return out
}

// CumulativeSavings returns running totals of net savings and savings
// transfers, oldest period first.
func (e Engine) CumulativeSavings(txs []core.Transaction) []core.CumulativePoint {
	aggs := e.aggregateAll(txs)
	out := make([]core.CumulativePoint, 0, len(aggs))
	net, transfers := decimal.Zero, decimal.Zero
	for _, agg := range aggs {
		net = net.Add(agg.NetSavings)
		transfers = transfers.Add(agg.SavingsTransfers)
		out = append(out, core.CumulativePoint{
			Period:              agg.Period,
			NetSavings:          agg.NetSavings,
			CumulativeNet:       net,
			SavingsTransfers:    agg.SavingsTransfers,
			CumulativeTransfers: transfers,
		})
	}
	return out
}
