package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(requests int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{Requests: requests, Window: time.Minute})
	rl.now = c.now
	return rl, c
}

func TestAllowWindow(t *testing.T) {
	rl, c := newTestLimiter(2)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests must pass")
	}
	if rl.Allow("a") {
		t.Error("third request within the window must be rejected")
	}
	if !rl.Allow("b") {
		t.Error("other clients are independent")
	}

	c.t = c.t.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("window reset not applied")
	}
	if m := rl.GetMetrics(); m.Rejected != 1 || m.ClientCount != 2 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, c := newTestLimiter(5)
	rl.Allow("a")
	c.t = c.t.Add(30 * time.Second)
	rl.Allow("b")
	c.t = c.t.Add(40 * time.Second)

	if n := rl.cleanupStaleEntries(); n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}
	if rl.GetMetrics().ClientCount != 1 {
		t.Error("fresh client evicted")
	}
}

func TestMiddleware(t *testing.T) {
	rl, c := newTestLimiter(1)
	h := rl.Middleware(func(*http.Request) string { return "k" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first status = %d", rec.Code)
	}

	c.t = c.t.Add(20 * time.Second)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "40" {
		t.Errorf("Retry-After = %q, want 40", got)
	}
}

func TestStartStop(t *testing.T) {
	rl := NewLimiter(Config{CleanupInterval: time.Millisecond})
	rl.Start()
	rl.Stop()
	rl.Stop()
}
