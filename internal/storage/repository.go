package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"budget/internal/core"
	"budget/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction implements ledger.TransactionWriter
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	now := r.now().UTC()
	tx.ID = uuid.NewString()
	tx.CreatedAt = now
	row := transactionToRow(tx)
	row.UpdatedAt = millis(now)
	if err := r.queries.InsertTransaction(ctx, row); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"category", tx.Category,
		"month", tx.Month,
		"year", tx.Year)

	return fromTransactionRow(row), nil
}

// UpdateTransaction implements ledger.TransactionWriter. The row is replaced
// wholesale; concurrent editors get last-write-wins semantics.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	row := transactionToRow(tx)
	row.UpdatedAt = millis(r.now())
	n, err := r.queries.UpdateTransaction(ctx, row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, ledger.ErrNotFound)
	}
	return r.GetTransaction(ctx, tx.ID)
}

// DeleteTransaction implements ledger.TransactionWriter
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}

// GetTransaction implements ledger.TransactionLister
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return fromTransactionRow(row), nil
}

// ListTransactions implements ledger.TransactionLister
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = fromTransactionRow(row)
	}
	return out, nil
}

// CreateGoal implements ledger.GoalWriter
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	now := r.now().UTC()
	g.ID = uuid.NewString()
	g.CreatedAt = now
	if strings.TrimSpace(g.CurrentAmount) == "" {
		g.CurrentAmount = "0"
	}
	row := goalToRow(g)
	row.UpdatedAt = millis(now)
	if err := r.queries.InsertGoal(ctx, row); err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal saved to SQLite", "id", g.ID, "name", g.Name)
	return fromGoalRow(row), nil
}

// UpdateGoal implements ledger.GoalWriter
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	row := goalToRow(g)
	row.UpdatedAt = millis(r.now())
	n, err := r.queries.UpdateGoal(ctx, row)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if n == 0 {
		return core.Goal{}, fmt.Errorf("goal %s: %w", g.ID, ledger.ErrNotFound)
	}
	return r.GetGoal(ctx, g.ID)
}

// DeleteGoal implements ledger.GoalWriter
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	n, err := r.queries.DeleteGoal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s: %w", id, ledger.ErrNotFound)
	}
	return nil
}

// GetGoal implements ledger.GoalLister
func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row, err := r.queries.GetGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %s: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return fromGoalRow(row), nil
}

// ListGoals implements ledger.GoalLister
func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]core.Goal, len(rows))
	for i, row := range rows {
		out[i] = fromGoalRow(row)
	}
	return out, nil
}

func transactionToRow(tx core.Transaction) TransactionRow {
	return TransactionRow{
		ID:          tx.ID,
		Title:       strings.TrimSpace(tx.Title),
		Amount:      strings.TrimSpace(tx.Amount),
		Category:    strings.TrimSpace(tx.Category),
		Subcategory: nullString(tx.Subcategory),
		Date:        tx.Date,
		Month:       strings.TrimSpace(tx.Month),
		Year:        strings.TrimSpace(tx.Year),
		Notes:       nullString(tx.Notes),
		CreatedAt:   millis(tx.CreatedAt),
	}
}

func fromTransactionRow(row TransactionRow) core.Transaction {
	return core.Transaction{
		ID:          row.ID,
		Title:       row.Title,
		Amount:      row.Amount,
		Category:    row.Category,
		Subcategory: row.Subcategory.String,
		Date:        row.Date,
		Month:       row.Month,
		Year:        row.Year,
		Notes:       row.Notes.String,
		CreatedAt:   fromMillis(row.CreatedAt),
	}
}

func goalToRow(g core.Goal) GoalRow {
	return GoalRow{
		ID:            g.ID,
		Name:          strings.TrimSpace(g.Name),
		TargetAmount:  strings.TrimSpace(g.TargetAmount),
		CurrentAmount: strings.TrimSpace(g.CurrentAmount),
		CreatedAt:     millis(g.CreatedAt),
	}
}

func fromGoalRow(row GoalRow) core.Goal {
	return core.Goal{
		ID:            row.ID,
		Name:          row.Name,
		TargetAmount:  row.TargetAmount,
		CurrentAmount: row.CurrentAmount,
		CreatedAt:     fromMillis(row.CreatedAt),
	}
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
