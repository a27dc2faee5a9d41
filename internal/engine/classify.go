package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Classify assigns a transaction to its bucket. Rules apply in order:
//
//  1. income label     -> Income
//  2. savings label    -> SavingsTransfer (sign ignored)
//  3. negative amount  -> Expense
//  4. zero amount      -> Expense, contributing nothing
//  5. anything else    -> Anomaly
func (e Engine) Classify(tx core.Transaction) core.Bucket {
	return e.bucketFor(tx.Category, core.ParseAmount(tx.Amount))
}

func (e Engine) bucketFor(category string, amount decimal.Decimal) core.Bucket {
	switch {
	case e.taxonomy.IsIncome(category):
		return core.BucketIncome
	case e.taxonomy.IsSavings(category):
		return core.BucketSavingsTransfer
	case !amount.IsPositive():
		return core.BucketExpense
	default:
		return core.BucketAnomaly
	}
}

// entry is a transaction with everything the aggregations need resolved once.
type entry struct {
	category  string
	amount    decimal.Decimal
	malformed bool
	bucket    core.Bucket
	period    core.PeriodKey
	hasPeriod bool
}

func (e Engine) resolve(tx core.Transaction) entry {
	amount, ok := core.ParseAmountOK(tx.Amount)
	period, hasPeriod := tx.Period()
	return entry{
		category:  strings.TrimSpace(tx.Category),
		amount:    amount,
		malformed: !ok,
		bucket:    e.bucketFor(tx.Category, amount),
		period:    period,
		hasPeriod: hasPeriod,
	}
}

func (en entry) in(p core.PeriodKey) bool {
	return en.hasPeriod && en.period == p
}
