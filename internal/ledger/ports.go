package ledger

import (
	"context"
	"errors"

	"budget/internal/core"
)

// ErrNotFound is returned when an id matches no record.
var ErrNotFound = errors.New("not found")

// Ports for the persistence and export collaborators. Records returned by
// listers are already scoped to the current household; ordering is not
// guaranteed.
type (
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	TransactionWriter interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		// UpdateTransaction replaces the stored record by id. The last write wins.
		UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	GoalLister interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		GetGoal(ctx context.Context, id string) (core.Goal, error)
	}

	GoalWriter interface {
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		DeleteGoal(ctx context.Context, id string) error
	}

	// ReportWriter exports a computed report, e.g. to a spreadsheet.
	ReportWriter interface {
		WriteReport(ctx context.Context, r core.Report) (ref string, err error)
	}

	// Store is the full persistence surface a backend provides.
	Store interface {
		TransactionLister
		TransactionWriter
		GoalLister
		GoalWriter
	}
)
