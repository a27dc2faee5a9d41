package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"budget/internal/config"
	"budget/internal/core"
	"budget/internal/ledger/memory"
	"budget/internal/log"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BUDGET_TEST_VALUE=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BUDGET_TEST_VALUE", "")
	os.Unsetenv("BUDGET_TEST_VALUE")

	LoadEnvFile(path)
	if got := os.Getenv("BUDGET_TEST_VALUE"); got != "from-dotenv" {
		t.Fatalf("got %q", got)
	}

	// Missing files are ignored.
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestSetupLogger(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json"}
	logger := SetupLogger(cfg, log.ComponentWorker)
	if logger.Component() != log.ComponentWorker {
		t.Fatalf("component %q", logger.Component())
	}
	if !logger.Enabled(context.Background(), -4) {
		t.Fatal("debug level should be enabled")
	}
}

func TestNewReportService_UsesConfiguredLabels(t *testing.T) {
	cfg := &config.Config{
		MinimumSavingsRate: 0.2,
		IncomeLabel:        "Salary",
		SavingsLabel:       "Piggy bank",
		SpendingLabels:     []string{"Rent"},
		BudgetLimits:       "Rent=1000",
	}
	store := memory.New()
	store.Seed([]core.Transaction{
		{Title: "Pay", Amount: "5000", Category: "Salary", Month: "1", Year: "2025"},
		{Title: "Flat", Amount: "-4500", Category: "Rent", Month: "1", Year: "2025"},
	}, nil)

	svc, err := NewReportService(cfg, store, log.New(log.Config{Output: &bytes.Buffer{}}))
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}
	r, err := svc.LatestReport(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Aggregate.Income.IntPart() != 5000 || r.Evaluation.Compliant {
		t.Fatalf("unexpected report %+v %+v", r.Aggregate, r.Evaluation)
	}
	if len(r.Budgets) != 1 || !r.Budgets[0].Over {
		t.Fatalf("expected rent over budget, got %+v", r.Budgets)
	}

	cfg.SavingsLabel = "salary"
	if _, err := NewReportService(cfg, store, nil); !errors.Is(err, core.ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestShutdown(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf})

	var order []string
	step := func(name string, err error) func(context.Context) error {
		return func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("%s: expected deadline", name)
			}
			order = append(order, name)
			return err
		}
	}

	err := Shutdown(logger, time.Second,
		step("http", nil),
		step("amqp", errors.New("channel closed")),
		nil,
		step("storage", errors.New("database is locked")))
	if err == nil {
		t.Fatal("expected combined error")
	}
	if strings.Join(order, ",") != "http,amqp,storage" {
		t.Fatalf("steps ran in order %v", order)
	}
	if !strings.Contains(err.Error(), "channel closed") || !strings.Contains(err.Error(), "database is locked") {
		t.Fatalf("missing errors: %v", err)
	}

	if err := Shutdown(logger, time.Second, step("ok", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
