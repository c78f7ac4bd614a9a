package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Output: &buf, Component: ComponentHTTP})
	l.WithComponent(ComponentSession).Info("hello")

	out := buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=session") {
		t.Fatalf("unexpected component attrs: %s", out)
	}
}

func TestStructuredLoggerEvents(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Output: &buf}))
	ctx := context.Background()

	sl.LogWeekSaved(ctx, "sid", "2025_M10_W42", 3, 12.5)
	sl.LogError(ctx, "Save failed", errors.New("disk full"), ComponentStorage, OpSave, nil)
	r := httptest.NewRequest("GET", "/ui/grid?x=1", nil)
	sl.LogHTTPEnd(ctx, r, 503, 7, "1.2.3.4")

	out := buf.String()
	for _, want := range []string{
		"week_key=2025_M10_W42", "rows=3", "total_hours=12.5",
		`error="disk full"`, "component=storage",
		"level=ERROR", "status_code=503",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatal("expected fallback logger")
	}
	l := New(DefaultConfig())
	if FromContext(IntoContext(context.Background(), l)) != l {
		t.Fatal("expected stored logger")
	}
}
