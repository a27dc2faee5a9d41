package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perWindow int) (*Limiter, *time.Time) {
	t.Helper()
	rl := NewLimiter(Config{RequestsPerWindow: perWindow, Window: time.Minute, CleanupInterval: time.Hour})
	t.Cleanup(rl.Stop)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestLimiter_Allow(t *testing.T) {
	rl, now := newTestLimiter(t, 2)

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("other clients are counted separately")
	}
	if rl.Hits() != 1 {
		t.Fatalf("expected 1 hit, got %d", rl.Hits())
	}

	*now = now.Add(time.Minute)
	if !rl.Allow("1.1.1.1") {
		t.Fatal("new window should reset the counter")
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	rl, now := newTestLimiter(t, 5)
	rl.Allow("1.1.1.1")
	*now = now.Add(11 * time.Minute)
	rl.Allow("2.2.2.2")

	rl.cleanupStaleEntries()
	if rl.ActiveClients() != 1 {
		t.Fatalf("expected stale client removed, got %d", rl.ActiveClients())
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}

func TestMiddleware_WritesOnly(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	h := rl.Middleware(func(*http.Request) string { return "ip" }, WritesOnly, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodPost, http.StatusNoContent},
		{http.MethodGet, http.StatusNoContent},
		{http.MethodGet, http.StatusNoContent},
		{http.MethodDelete, http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/transactions", nil))
		if rec.Code != tt.want {
			t.Fatalf("%s: got %d, want %d", tt.method, rec.Code, tt.want)
		}
	}
}

func TestMiddleware_RetryAfter(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	called := false
	h := rl.Middleware(func(*http.Request) string { return "ip" }, nil, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if i == 1 && rec.Header().Get("Retry-After") != "60" {
			t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
		}
	}
	if !called {
		t.Fatal("onLimit not called")
	}
}
