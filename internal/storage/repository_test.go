package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "budget.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Title:    "Groceries",
		Amount:   "-1,250.40",
		Category: "Food",
		Date:     "2025-03-04",
		Month:    "March",
		Year:     "2025",
		Notes:    "weekly shop",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != "-1,250.40" {
		t.Fatalf("amount text must be stored verbatim, got %q", got.Amount)
	}
	if got.Notes != "weekly shop" || got.Subcategory != "" {
		t.Fatalf("unexpected optional fields %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt.Truncate(time.Millisecond)) {
		t.Fatalf("created_at mismatch: %v vs %v", got.CreatedAt, created.CreatedAt)
	}

	got.Category = "Housing"
	updated, err := repo.UpdateTransaction(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != "Housing" || !updated.CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("update should keep created_at, got %+v", updated)
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}

	if err := repo.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, created.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteRejectsInvalidTransaction(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Title: "x", Amount: "abc", Category: "Food", Month: "March", Year: "2025",
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSQLiteUpdateMissing(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.UpdateTransaction(context.Background(), core.Transaction{
		ID: "nope", Title: "x", Amount: "1", Category: "Food", Month: "March", Year: "2025",
	})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteGoals(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	g, err := repo.CreateGoal(ctx, core.Goal{Name: "Emergency fund", TargetAmount: "30000"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.CurrentAmount != "0" {
		t.Fatalf("expected default current amount, got %q", g.CurrentAmount)
	}

	g.TargetAmount = "35000"
	if _, err := repo.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}
	goals, err := repo.ListGoals(ctx)
	if err != nil || len(goals) != 1 || goals[0].TargetAmount != "35000" {
		t.Fatalf("list: %+v %v", goals, err)
	}

	if _, err := repo.CreateGoal(ctx, core.Goal{Name: "bad", TargetAmount: "-5"}); !errors.Is(err, core.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}

	if err := repo.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetGoal(ctx, g.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()
	if err := RunMigrations(path); err != nil {
		t.Fatalf("rerun migrations: %v", err)
	}
}
