package google

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestNewFromEnv_UnreadableCredentialsFile(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", t.TempDir()+"/missing.json")

	_, err := NewFromEnv(context.Background())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteReport_Guards(t *testing.T) {
	c := &Client{spreadsheetID: "test", reportBase: "Summary"}
	if _, err := c.WriteReport(context.Background(), core.Report{}); err == nil {
		t.Fatal("expected error without a service")
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Summary", 2025, "2025 Summary"},
		{"  Summary ", 2024, "2024 Summary"},
		{"2023 Summary", 2025, "2023 Summary"},
		{"", 2025, ""},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestReportRow(t *testing.T) {
	r := core.Report{
		Period: core.PeriodKey{Month: time.March, Year: 2025},
		Aggregate: core.PeriodAggregate{
			Income:           decimal.NewFromInt(10000),
			Expenses:         decimal.RequireFromString("4000.5"),
			SavingsTransfers: decimal.NewFromInt(2000),
			NetSavings:       decimal.RequireFromString("5999.5"),
			Malformed:        1,
		},
		Evaluation: core.SavingsEvaluation{
			Rate:        decimal.RequireFromString("59.995"),
			MinimumRate: decimal.NewFromInt(50),
			Compliant:   true,
		},
		Goal: &core.GoalProgress{
			Name:       "Emergency fund",
			TotalSaved: decimal.NewFromInt(2000),
			Percent:    decimal.NewFromInt(20),
		},
		GeneratedAt: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}

	row := reportRow(r)
	if len(row) != len(reportColumns) {
		t.Fatalf("row has %d cells, header has %d", len(row), len(reportColumns))
	}
	want := []any{
		"2025-03", "10000.00", "4000.50", "2000.00", "5999.50",
		60.0, "50.00", true,
		"Emergency fund", "2000.00", "20.00", 0, 1, "2025-04-01T08:00:00Z",
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d (%s) = %v, want %v", i, reportColumns[i], row[i], want[i])
		}
	}
}

func TestReportRow_NoGoal(t *testing.T) {
	row := reportRow(core.Report{Period: core.PeriodKey{Month: time.January, Year: 2025}})
	if row[8] != "" || row[9] != "" || row[13] != "" {
		t.Fatalf("expected blank goal and timestamp cells, got %v", row)
	}
}
