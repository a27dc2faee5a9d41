package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodAggregate holds the bucket totals for one period. All totals are
// magnitudes; NetSavings is Income minus Expenses and ignores savings
// transfers.
type PeriodAggregate struct {
	Period           PeriodKey       `json:"period"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	SavingsTransfers decimal.Decimal `json:"savingsTransfers"`
	NetSavings       decimal.Decimal `json:"netSavings"`
	Count            int             `json:"count"`
	Anomalies        int             `json:"anomalies"`
	Malformed        int             `json:"malformed"`
}

// SavingsEvaluation is the result of checking a period against the minimum
// savings rate. Rate and MinimumRate are percentages.
type SavingsEvaluation struct {
	Rate        decimal.Decimal `json:"rate"`
	MinimumRate decimal.Decimal `json:"minimumRate"`
	Compliant   bool            `json:"compliant"`
}

// RateFloat is Rate rounded to two places, for display.
func (e SavingsEvaluation) RateFloat() float64 {
	return e.Rate.Round(2).InexactFloat64()
}

// GoalProgress is the all-time progress toward a goal. Percent is not
// clamped and exceeds 100 once the goal is passed.
type GoalProgress struct {
	GoalID     string          `json:"goalId"`
	Name       string          `json:"name"`
	Target     decimal.Decimal `json:"target"`
	TotalSaved decimal.Decimal `json:"totalSaved"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percent    decimal.Decimal `json:"percent"`
}

// CategoryTotal is one slice of the expense distribution.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// PeriodSummary is one point of the monthly trend.
type PeriodSummary struct {
	PeriodAggregate
	Evaluation SavingsEvaluation `json:"evaluation"`
}

// CumulativePoint is one point of the running savings series.
type CumulativePoint struct {
	Period              PeriodKey       `json:"period"`
	NetSavings          decimal.Decimal `json:"netSavings"`
	CumulativeNet       decimal.Decimal `json:"cumulativeNet"`
	SavingsTransfers    decimal.Decimal `json:"savingsTransfers"`
	CumulativeTransfers decimal.Decimal `json:"cumulativeTransfers"`
}

// BudgetLimit is a monthly spending cap for one category.
type BudgetLimit struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

// CategoryBudget compares a category's spending with its limit.
type CategoryBudget struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
	Percent  decimal.Decimal `json:"percent"`
	Over     bool            `json:"over"`
}

// DisplayPercent is Percent clamped to 100 for progress bars.
func (b CategoryBudget) DisplayPercent() decimal.Decimal {
	if b.Percent.GreaterThan(hundred) {
		return hundred
	}
	return b.Percent
}

// Report bundles everything computed for one period.
type Report struct {
	Period      PeriodKey         `json:"period"`
	Aggregate   PeriodAggregate   `json:"aggregate"`
	Evaluation  SavingsEvaluation `json:"evaluation"`
	Goal        *GoalProgress     `json:"goal,omitempty"`
	Breakdown   []CategoryTotal   `json:"breakdown"`
	Budgets     []CategoryBudget  `json:"budgets,omitempty"`
	Series      []PeriodSummary   `json:"series"`
	Cumulative  []CumulativePoint `json:"cumulative"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
