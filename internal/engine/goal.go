package engine

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Progress measures all-time savings transfers against the goal target.
// The stored CurrentAmount of the goal is ignored.
func (e Engine) Progress(txs []core.Transaction, goal core.Goal) core.GoalProgress {
	saved := e.TotalSaved(txs)
	target := core.ParseAmount(goal.TargetAmount)
	remaining := target.Sub(saved)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return core.GoalProgress{
		GoalID:     goal.ID,
		Name:       goal.Name,
		Target:     target,
		TotalSaved: saved,
		Remaining:  remaining,
		Percent:    core.Percent(saved, target),
	}
}

// TotalSaved is the sum of |amount| over every savings transfer, regardless
// of period.
func (e Engine) TotalSaved(txs []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if !e.taxonomy.IsSavings(tx.Category) {
			continue
		}
		total = total.Add(core.ParseAmount(tx.Amount).Abs())
	}
	return total
}

// ActiveGoal picks the goal treated as current: the first one created.
// Goals with equal creation times keep their input order.
func ActiveGoal(goals []core.Goal) (core.Goal, bool) {
	if len(goals) == 0 {
		return core.Goal{}, false
	}
	active := goals[0]
	for _, g := range goals[1:] {
		if g.CreatedAt.Before(active.CreatedAt) {
			active = g
		}
	}
	return active, true
}
