package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Component: ComponentLedger})
	l.Info("hello")
	if !strings.Contains(buf.String(), "component=ledger") {
		t.Fatalf("missing component in %q", buf.String())
	}

	buf.Reset()
	l.WithComponent(ComponentWorker).Info("again")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Fatalf("missing child component in %q", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	if got := FromContext(context.Background()); got == nil || got.Component() != "unknown" {
		t.Fatalf("unexpected fallback logger %+v", got)
	}
	l := Discard()
	if got := FromContext(NewContext(context.Background(), l)); got != l {
		t.Fatal("logger not recovered from context")
	}
}

func TestMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf})
	h := Middleware(l, func(*http.Request) string { return "req-1" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r.Context()).Component() != ComponentHTTP {
				t.Error("handler did not receive the request logger")
			}
			w.WriteHeader(http.StatusTeapot)
		}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x", nil))

	out := buf.String()
	for _, want := range []string{"level=WARN", "status_code=418", "request_id=req-1", "path=/api/x"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}
