package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/engine"
	"budget/internal/ledger"
	"budget/internal/ledger/memory"
	"budget/internal/log"
	"budget/internal/services"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.Seed([]core.Transaction{
		{Title: "Salary", Amount: "10000", Category: "Income", Month: "March", Year: "2025"},
		{Title: "Rent", Amount: "-3000", Category: "Housing", Month: "March", Year: "2025"},
		{Title: "Groceries", Amount: "-1000", Category: "Food", Month: "March", Year: "2025"},
		{Title: "To savings", Amount: "-2000", Category: "Savings", Month: "March", Year: "2025"},
		{Title: "Salary", Amount: "10000", Category: "Income", Month: "April", Year: "2025"},
		{Title: "Rent", Amount: "-6000", Category: "Housing", Month: "April", Year: "2025"},
	}, []core.Goal{{Name: "Emergency fund", TargetAmount: "10000"}})

	logger := log.New(log.Config{Output: &bytes.Buffer{}})
	ledgerSvc := services.NewLedgerService(store, nil, logger)
	reportSvc := services.NewReportService(store, store, engine.Default(), services.ReportConfig{MinimumRate: 0.5}, logger)

	srv := NewServer(":0", ledgerSvc, reportSvc, logger)
	t.Cleanup(func() { srv.limiter.Stop() })
	return srv, store
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v\nbody: %s", v, err, rec.Body.String())
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/api/health", "/readyz"} {
		rec := do(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" || rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Fatalf("%s missing middleware headers: %v", path, rec.Header())
		}
	}
}

type brokenLedger struct{ LedgerAPI }

func (brokenLedger) ListGoals(context.Context) ([]core.Goal, error) {
	return nil, errors.New("database is locked")
}

func TestReady_StoreDown(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.ledger = brokenLedger{}
	if rec := do(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestListTransactions(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name   string
		target string
		status int
		count  int
	}{
		{name: "all", target: "/api/transactions", status: http.StatusOK, count: 6},
		{name: "by period", target: "/api/transactions?period=2025-03", status: http.StatusOK, count: 4},
		{name: "by labels", target: "/api/transactions?month=april&year=2025", status: http.StatusOK, count: 2},
		{name: "empty period", target: "/api/transactions?period=2024-01", status: http.StatusOK, count: 0},
		{name: "bad period", target: "/api/transactions?period=2025-13", status: http.StatusBadRequest},
		{name: "bad labels", target: "/api/transactions?month=Smarch&year=2025", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			if got := decode[[]core.Transaction](t, rec); len(got) != tt.count {
				t.Fatalf("got %d transactions, want %d", len(got), tt.count)
			}
		})
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/transactions",
		`{"title":"  Dinner\u0007 ","amount":"-1,250.50","category":"Food","month":"May","year":"2025"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[core.Transaction](t, rec)
	if created.ID == "" || created.Title != "Dinner" || created.Amount != "-1,250.50" {
		t.Fatalf("unexpected created %+v", created)
	}
	if rec.Header().Get("Location") != "/api/transactions/"+created.ID {
		t.Fatalf("unexpected Location %q", rec.Header().Get("Location"))
	}

	rec = do(t, srv, http.MethodPatch, "/api/transactions/"+created.ID, `{"amount":"-900"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := decode[core.Transaction](t, rec); got.Amount != "-900" || got.Title != "Dinner" {
		t.Fatalf("partial update wrong: %+v", got)
	}

	if rec := do(t, srv, http.MethodGet, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("get status=%d", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", rec.Code)
	}
}

func TestCreateTransaction_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{name: "malformed json", body: `{"title":`, status: http.StatusBadRequest, errMsg: "invalid JSON body"},
		{name: "unknown field", body: `{"title":"x","price":"1"}`, status: http.StatusBadRequest, errMsg: "unknown field"},
		{name: "two objects", body: `{"title":"x"}{"title":"y"}`, status: http.StatusBadRequest, errMsg: "single JSON object"},
		{name: "bad amount", body: `{"title":"x","amount":"ten","category":"Food","month":"May","year":"2025"}`, status: http.StatusUnprocessableEntity, errMsg: "invalid amount"},
		{name: "bad month", body: `{"title":"x","amount":"1","category":"Food","month":"Maybe","year":"2025"}`, status: http.StatusUnprocessableEntity, errMsg: "invalid month"},
		{name: "empty title", body: `{"title":"  ","amount":"1","category":"Food","month":"May","year":"2025"}`, status: http.StatusUnprocessableEntity, errMsg: "empty title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if body := decode[errorBody](t, rec); !strings.Contains(body.Error, tt.errMsg) {
				t.Fatalf("error %q does not mention %q", body.Error, tt.errMsg)
			}
		})
	}
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	if rec := do(t, srv, http.MethodPatch, "/api/transactions/missing", `{"title":"x"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("patch status=%d", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, "/api/goals/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete goal status=%d", rec.Code)
	}
	if rec := do(t, srv, http.MethodPut, "/api/transactions/missing", `{}`); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("put status=%d", rec.Code)
	}
}

func TestGoals(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/goals", `{"name":"Car","targetAmount":"40000"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	car := decode[core.Goal](t, rec)

	rec = do(t, srv, http.MethodPatch, "/api/goals/"+car.ID, `{"targetAmount":"45000"}`)
	if got := decode[core.Goal](t, rec); rec.Code != http.StatusOK || got.TargetAmount != "45000" || got.Name != "Car" {
		t.Fatalf("update status=%d goal=%+v", rec.Code, got)
	}

	if rec := do(t, srv, http.MethodPost, "/api/goals", `{"name":"Boat","targetAmount":"-1"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative target status=%d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/goals", "")
	if got := decode[[]core.Goal](t, rec); len(got) != 2 {
		t.Fatalf("expected 2 goals, got %+v", got)
	}
}

func TestGoalProgress(t *testing.T) {
	srv, store := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/goals/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	p := decode[core.GoalProgress](t, rec)
	if p.Name != "Emergency fund" || !p.Percent.Equal(decimal.NewFromInt(20)) || !p.Remaining.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("unexpected progress %+v", p)
	}

	goals, _ := store.ListGoals(context.Background())
	rec = do(t, srv, http.MethodGet, "/api/goals/progress?id="+goals[0].ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("by id status=%d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/goals/progress?id=nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status=%d", rec.Code)
	}
}

func TestReport(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/report?period=2025-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	r := decode[core.Report](t, rec)
	if !r.Aggregate.NetSavings.Equal(decimal.NewFromInt(6000)) || !r.Aggregate.SavingsTransfers.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected aggregate %+v", r.Aggregate)
	}
	if !r.Evaluation.Compliant || len(r.Series) != 2 {
		t.Fatalf("unexpected evaluation %+v series %d", r.Evaluation, len(r.Series))
	}

	rec = do(t, srv, http.MethodGet, "/api/report", "")
	if latest := decode[core.Report](t, rec); latest.Period != (core.PeriodKey{Month: time.April, Year: 2025}) || latest.Evaluation.Compliant {
		t.Fatalf("expected non-compliant April, got %v %+v", latest.Period, latest.Evaluation)
	}

	if rec := do(t, srv, http.MethodGet, "/api/report?period=March", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad period status=%d", rec.Code)
	}
}

func TestPeriodsAndBreakdown(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/periods", "")
	periods := decode[[]periodResponse](t, rec)
	if len(periods) != 2 || periods[0] != (periodResponse{"2025-03", "March 2025"}) {
		t.Fatalf("unexpected periods %+v", periods)
	}

	rec = do(t, srv, http.MethodGet, "/api/breakdown?period=2025-03", "")
	totals := decode[[]core.CategoryTotal](t, rec)
	if len(totals) != 2 || totals[0].Category != "Housing" || !totals[0].Total.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("unexpected breakdown %+v", totals)
	}

	rec = do(t, srv, http.MethodGet, "/api/breakdown", "")
	if all := decode[[]core.CategoryTotal](t, rec); !all[0].Total.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("unexpected all-time breakdown %+v", all)
	}
}

func TestRateLimitAppliesToWrites(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"title":"x","amount":"-1","category":"Food","month":"May","year":"2025"}`

	var last *httptest.ResponseRecorder
	for i := 0; i < 61; i++ {
		last = do(t, srv, http.MethodPost, "/api/transactions", body)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("61st write status=%d", last.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("reads must not be limited, got %d", rec.Code)
	}
}

func TestSuspiciousRequestRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	if rec := do(t, srv, http.MethodGet, "/api/transactions?period=../../etc/passwd", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("get: %w", ledger.ErrNotFound), http.StatusNotFound},
		{core.ErrInvalidPeriod, http.StatusBadRequest},
		{fmt.Errorf("create transaction: %w", core.ErrInvalidAmount), http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errorStatus(tt.err); got != tt.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestInternalErrorHidden(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.ledger = brokenLedger{}
	rec := do(t, srv, http.MethodGet, "/api/goals", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Error != "internal error" {
		t.Fatalf("leaked error %q", body.Error)
	}
}
