package clog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAttributeBag(t *testing.T) {
	ctx := context.Background()
	AddAttribute(ctx, "ignored", 1)
	if got := GetAttributes(ctx); got != nil {
		t.Errorf("GetAttributes without bag = %v, want nil", got)
	}

	ctx = ContextWithSlog(ctx)
	AddAttribute(ctx, "task_id", "abc123")
	AddAttributes(ctx, map[string]any{"count": 3, "task_id": "def456"})
	AddError(ctx, errors.New("boom"))

	if got := GetAttribute[string](ctx, "task_id"); got != "def456" {
		t.Errorf("task_id = %q, want %q", got, "def456")
	}
	if got := GetAttribute[int](ctx, "count"); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
	if got := GetAttribute[int](ctx, "task_id"); got != 0 {
		t.Errorf("mistyped lookup = %d, want zero value", got)
	}
	if err := GetError(ctx); err == nil || err.Error() != "boom" {
		t.Errorf("GetError = %v, want boom", err)
	}

	snapshot := GetAttributes(ctx)
	snapshot["task_id"] = "mutated"
	if got := GetAttribute[string](ctx, "task_id"); got != "def456" {
		t.Errorf("GetAttributes must return a copy, bag now has %q", got)
	}
}

func TestJSONHandlerIncludesBag(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.LevelInfo, FormatJSON, &buf))

	ctx := ContextWithSlog(context.Background())
	AddAttribute(ctx, "task_id", "abc123")
	logger.InfoContext(ctx, "task completed", "actual_minutes", 45)
	logger.DebugContext(ctx, "filtered out")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if rec["msg"] != "task completed" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["task_id"] != "abc123" {
		t.Errorf("task_id = %v, want abc123", rec["task_id"])
	}
	if rec["actual_minutes"] != float64(45) {
		t.Errorf("actual_minutes = %v, want 45", rec["actual_minutes"])
	}
}

func TestTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewTextHandler(&buf, WithColor(false), WithLevel(slog.LevelDebug))
	logger := slog.New(h).With("component", "api").WithGroup("req")

	logger.Warn("Not Found", "method", "GET", "status", 404, "error.message", "task not found")

	out := buf.String()
	for _, want := range []string{"WARN ", "Not Found", "    component=api\n", "    req.method=GET\n", "    req.status=404\n", "error.message=task not found"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output contains color codes with color disabled: %q", out)
	}
}

func TestTextHandlerLeadingColumns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTextHandler(&buf, WithColor(false)))

	logger.Error("Internal Server Error", "path", "/api/tasks", "method", "POST", "status", 500, ErrorAttributeKey, "disk full")

	first, _, _ := strings.Cut(buf.String(), "\n")
	if !strings.Contains(first, "ERROR POST /api/tasks 500 Internal Server Error disk full") {
		t.Errorf("first line = %q", first)
	}
	if strings.Contains(buf.String(), "    path=") {
		t.Errorf("leading columns must not repeat as pairs:\n%s", buf.String())
	}
}

func TestTextHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewTextHandler(&buf, WithColor(false))
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled by default")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be enabled by default")
	}
}

func TestHTTPStatusToLevel(t *testing.T) {
	tests := []struct {
		status int
		want   slog.Level
	}{
		{200, slog.LevelInfo},
		{304, slog.LevelInfo},
		{400, slog.LevelWarn},
		{404, slog.LevelWarn},
		{499, slog.LevelInfo},
		{500, slog.LevelError},
		{0, slog.LevelError},
	}
	for _, tt := range tests {
		if got := HTTPStatusToLevel(tt.status); got != tt.want {
			t.Errorf("HTTPStatusToLevel(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSlogChiMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(NewHandler(slog.LevelDebug, FormatJSON, &buf)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := SlogChiMiddleware(WithChiFilter(func(r *http.Request) bool {
		return r.URL.Path != "/health"
	}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddAttribute(r.Context(), "task_id", "abc123")
		http.Error(w, "nope", http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if buf.Len() != 0 {
		t.Fatalf("filtered request was logged: %s", buf.String())
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks/abc123", nil))
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON log line: %v: %s", err, buf.String())
	}
	if rec["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", rec["level"])
	}
	if rec["msg"] != "Not Found" {
		t.Errorf("msg = %v, want Not Found", rec["msg"])
	}
	if rec["status"] != float64(404) {
		t.Errorf("status = %v, want 404", rec["status"])
	}
	if rec["path"] != "/api/tasks/abc123" || rec["method"] != "GET" || rec["task_id"] != "abc123" {
		t.Errorf("missing request attributes: %v", rec)
	}
}
