package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/clarity/internal/blob"
	"github.com/abatilo/clarity/internal/config"
	"github.com/abatilo/clarity/internal/dashboard"
	"github.com/abatilo/clarity/internal/storage"
	"github.com/abatilo/clarity/internal/task"
)

var morning = time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	local, err := blob.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	app, err := dashboard.New(context.Background(), cfg, storage.NewYAMLRepository(local),
		dashboard.WithClock(func() time.Time { return morning }))
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(app, []string{"*"}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(bytes.TrimSpace(data)) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func errorType(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	s, _ := e["type"].(string)
	return s
}

func addTask(t *testing.T, srv *httptest.Server, body string) string {
	t.Helper()
	status, out := call(t, srv, http.MethodPost, "/api/tasks", body)
	require.Equal(t, http.StatusCreated, status, out)
	return out["id"].(string)
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	status, out := call(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out["status"])
}

func TestTaskLifecycle(t *testing.T) {
	srv := newServer(t)

	id := addTask(t, srv, `{"title": "Refactor", "type": "coding", "estimated_minutes": 60, "complexity_score": 4,
		"scheduled_at": "2024-01-15T14:00:00Z"}`)
	addTask(t, srv, `{"type": "admin", "estimated_minutes": 15}`)

	status, out := call(t, srv, http.MethodGet, "/api/tasks?filter=incomplete", "")
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 2, out["count"], 0)

	status, out = call(t, srv, http.MethodPost, "/api/tasks/"+id+"/complete",
		`{"actual_minutes": 75, "focus_level": 4, "interruption_count": 1}`)
	require.Equal(t, http.StatusOK, status, out)
	assert.Equal(t, true, out["completed"])
	assert.InDelta(t, 75, out["actual_minutes"], 1e-9)

	status, out = call(t, srv, http.MethodPost, "/api/tasks/"+id+"/complete", `{"actual_minutes": 75}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_completed", errorType(out))

	status, out = call(t, srv, http.MethodPost, "/api/tasks/nope/complete", `{"actual_minutes": 75}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", errorType(out))

	status, out = call(t, srv, http.MethodGet, "/api/tasks?filter=completed", "")
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, out["count"], 0)

	status, out = call(t, srv, http.MethodDelete, "/api/tasks", "")
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 2, out["removed"], 0)
}

func TestTaskValidation(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantType string
	}{
		{"missing type", http.MethodPost, "/api/tasks", `{"estimated_minutes": 30}`, "bad_request"},
		{"zero estimate", http.MethodPost, "/api/tasks", `{"type": "coding"}`, "invalid_task"},
		{"bad complexity", http.MethodPost, "/api/tasks", `{"type": "coding", "estimated_minutes": 30, "complexity_score": 9}`, "invalid_task"},
		{"unknown field", http.MethodPost, "/api/tasks", `{"type": "coding", "minutes": 30}`, "bad_request"},
		{"bad filter", http.MethodGet, "/api/tasks?filter=overdue", "", "invalid_filter"},
		{"bad date", http.MethodGet, "/api/analytics/cognitive-load?date=15/01/2024", "", "bad_request"},
		{"bad energy", http.MethodPost, "/api/priorities", `{"energy": 9}`, "invalid_energy"},
		{"bad mood score", http.MethodPost, "/api/mood", `{"score": 6}`, "invalid_energy"},
		{"bad import", http.MethodPost, "/api/import", `{"export_date": "2024-01-15"}`, "invalid_export"},
		{"too many samples", http.MethodPost, "/api/sample", `{"count": 5000}`, "bad_request"},
		{"bad prediction", http.MethodPost, "/api/drift/predict", `{"type": "coding", "estimated_minutes": -5}`, "invalid_task"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantType, errorType(out))
		})
	}
}

func TestAnalytics(t *testing.T) {
	srv := newServer(t)

	status, out := call(t, srv, http.MethodGet, "/api/analytics/cognitive-load", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "low", out["level"])

	status, out = call(t, srv, http.MethodGet, "/api/analytics/realism?date=2024-01-15", "")
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 100, out["score"], 1e-9)

	status, out = call(t, srv, http.MethodGet, "/api/analytics/interruptions", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, out["available"])
	assert.NotContains(t, out, "result")

	status, out = call(t, srv, http.MethodPost, "/api/sample", `{"count": 40}`)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 40, out["generated"], 0)

	status, out = call(t, srv, http.MethodGet, "/api/analytics/rhythm", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["available"])

	status, out = call(t, srv, http.MethodGet, "/api/analytics/fatigue", "")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, out["days"])
}

func TestDrift(t *testing.T) {
	srv := newServer(t)

	status, out := call(t, srv, http.MethodPost, "/api/drift/train", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "insufficient_data", out["status"])
	assert.InDelta(t, 20, out["tasks_needed"], 0)

	status, out = call(t, srv, http.MethodPost, "/api/drift/predict", `{"type": "coding", "estimated_minutes": 50}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "heuristic", out["method"])
	assert.InDelta(t, 60, out["ai_prediction"], 1e-9)
}

func TestPrioritiesAndDashboard(t *testing.T) {
	srv := newServer(t)
	addTask(t, srv, `{"type": "deep_work", "estimated_minutes": 90, "complexity_score": 5, "scheduled_at": "2024-01-15T10:00:00Z"}`)
	addTask(t, srv, `{"type": "admin", "estimated_minutes": 15, "complexity_score": 1}`)

	status, out := call(t, srv, http.MethodPost, "/api/priorities", `{"mood": "tired", "enhance": true, "explain": true}`)
	require.Equal(t, http.StatusOK, status, out)
	assert.InDelta(t, 2, out["energy"], 0)
	assert.Equal(t, false, out["ai_enhanced"])
	assert.Len(t, out["prioritized_tasks"], 2)
	assert.Contains(t, out["explanation"], "Prioritized by urgency")

	status, out = call(t, srv, http.MethodPost, "/api/mood", `{"text": "feeling motivated"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, out["coaching"], "good energy")

	status, out = call(t, srv, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, status)
	counts := out["counts"].(map[string]any)
	assert.InDelta(t, 2, counts["incomplete"], 0)
	assert.Equal(t, "collecting", out["drift"].(map[string]any)["state"])
}

func TestExportImport(t *testing.T) {
	source := newServer(t)
	addTask(t, source, `{"type": "meeting", "estimated_minutes": 30}`)

	resp, err := source.Client().Get(source.URL + "/api/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "clarity-export-20240115.json")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	target := newServer(t)
	status, out := call(t, target, http.MethodPost, "/api/import", string(data))
	require.Equal(t, http.StatusOK, status, out)
	assert.InDelta(t, 1, out["imported"], 0)

	status, out = call(t, target, http.MethodPost, "/api/import", string(data))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_exists", errorType(out))

	status, out = call(t, target, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, status)
	tasks := out["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.TypeMeeting, tasks[0].(map[string]any)["type"])
}

func TestMetricsAndCORS(t *testing.T) {
	srv := newServer(t)
	call(t, srv, http.MethodGet, "/api/dashboard", "")

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "clarity_http_request_duration_seconds")
	assert.Contains(t, string(body), `route="/api/dashboard"`)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, srv.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	srv := newServer(t)
	status, out := call(t, srv, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", errorType(out))
}

type ctxKey struct{}

func TestRequestBaseSurvivesShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "clarity"))
	base := requestBase(ctx)(nil)
	cancel()

	require.NoError(t, base.Err())
	assert.Equal(t, "clarity", base.Value(ctxKey{}))
}
