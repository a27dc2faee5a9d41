package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the SQL for the ledger tables.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// TransactionRow mirrors the transactions table.
type TransactionRow struct {
	ID          string
	Title       string
	Amount      string
	Category    string
	Subcategory sql.NullString
	Date        string
	Month       string
	Year        string
	Notes       sql.NullString
	CreatedAt   int64
	UpdatedAt   int64
}

// GoalRow mirrors the goals table.
type GoalRow struct {
	ID            string
	Name          string
	TargetAmount  string
	CurrentAmount string
	CreatedAt     int64
	UpdatedAt     int64
}

const transactionColumns = `id, title, amount, category, subcategory, date, month, year, notes, created_at, updated_at`

const insertTransaction = `INSERT INTO transactions (` + transactionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, r TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		r.ID, r.Title, r.Amount, r.Category, r.Subcategory, r.Date, r.Month, r.Year, r.Notes, r.CreatedAt, r.UpdatedAt)
	return err
}

const updateTransaction = `UPDATE transactions
SET title = ?, amount = ?, category = ?, subcategory = ?, date = ?, month = ?, year = ?, notes = ?, updated_at = ?
WHERE id = ?`

// UpdateTransaction returns the number of rows changed.
func (q *Queries) UpdateTransaction(ctx context.Context, r TransactionRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		r.Title, r.Amount, r.Category, r.Subcategory, r.Date, r.Month, r.Year, r.Notes, r.UpdatedAt, r.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id string) (TransactionRow, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const listTransactions = `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at, rowid`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransactionRow
	for rows.Next() {
		r, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (TransactionRow, error) {
	var r TransactionRow
	err := s.Scan(&r.ID, &r.Title, &r.Amount, &r.Category, &r.Subcategory, &r.Date, &r.Month, &r.Year, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const goalColumns = `id, name, target_amount, current_amount, created_at, updated_at`

const insertGoal = `INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertGoal(ctx context.Context, r GoalRow) error {
	_, err := q.db.ExecContext(ctx, insertGoal, r.ID, r.Name, r.TargetAmount, r.CurrentAmount, r.CreatedAt, r.UpdatedAt)
	return err
}

const updateGoal = `UPDATE goals SET name = ?, target_amount = ?, current_amount = ?, updated_at = ? WHERE id = ?`

func (q *Queries) UpdateGoal(ctx context.Context, r GoalRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateGoal, r.Name, r.TargetAmount, r.CurrentAmount, r.UpdatedAt, r.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteGoal = `DELETE FROM goals WHERE id = ?`

func (q *Queries) DeleteGoal(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGoal, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getGoal = `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`

func (q *Queries) GetGoal(ctx context.Context, id string) (GoalRow, error) {
	return scanGoal(q.db.QueryRowContext(ctx, getGoal, id))
}

const listGoals = `SELECT ` + goalColumns + ` FROM goals ORDER BY created_at, rowid`

func (q *Queries) ListGoals(ctx context.Context) ([]GoalRow, error) {
	rows, err := q.db.QueryContext(ctx, listGoals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GoalRow
	for rows.Next() {
		r, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanGoal(s scanner) (GoalRow, error) {
	var r GoalRow
	err := s.Scan(&r.ID, &r.Name, &r.TargetAmount, &r.CurrentAmount, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
