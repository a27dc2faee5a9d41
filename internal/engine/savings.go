package engine

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Evaluate computes the savings rate of a period and checks it against
// minimumRate, a fraction in (0, 1]. Values outside that range fall back to
// DefaultMinimumRate. With no income the rate is zero.
func Evaluate(agg core.PeriodAggregate, minimumRate float64) core.SavingsEvaluation {
	if minimumRate <= 0 || minimumRate > 1 {
		minimumRate = DefaultMinimumRate
	}
	minPercent := decimal.NewFromFloat(minimumRate).Mul(hundred)
	rate := core.Percent(agg.NetSavings, agg.Income)
	return core.SavingsEvaluation{
		Rate:        rate,
		MinimumRate: minPercent,
		Compliant:   rate.GreaterThanOrEqual(minPercent),
	}
}
