package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abatilo/clarity/internal/clog"
	"github.com/abatilo/clarity/internal/dashboard"
	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/task"
)

const (
	defaultComplexity = 3.0
	maxSampleCount    = 1000
)

// ─── Tasks ──────────────────────────────────────────────────────────────────

type taskListResponse struct {
	Tasks []task.Task `json:"tasks"`
	Count int         `json:"count"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.app.Tasks(r.URL.Query().Get("filter"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks, Count: len(tasks)})
}

type taskRequest struct {
	Title              string     `json:"title"`
	Type               string     `json:"type"`
	EstimatedMinutes   float64    `json:"estimated_minutes"`
	ComplexityScore    *float64   `json:"complexity_score"`
	ScheduledAt        *time.Time `json:"scheduled_at"`
	InterruptionCount  int        `json:"interruption_count"`
	ContextSwitchCount int        `json:"context_switch_count"`
}

func (req taskRequest) task() (task.Task, error) {
	if req.Type == "" {
		return task.Task{}, BadRequestError{Reason: "type is required"}
	}
	t := task.Task{
		Title:              req.Title,
		Type:               req.Type,
		EstimatedMinutes:   req.EstimatedMinutes,
		ComplexityScore:    defaultComplexity,
		InterruptionCount:  req.InterruptionCount,
		ContextSwitchCount: req.ContextSwitchCount,
		FocusLevel:         task.DefaultFocusLevel,
	}
	if req.ComplexityScore != nil {
		t.ComplexityScore = *req.ComplexityScore
	}
	if req.ScheduledAt != nil {
		t.ScheduledAt = *req.ScheduledAt
	}
	return t, nil
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, r, err)
		return
	}
	t, err := req.task()
	if err != nil {
		fail(w, r, err)
		return
	}
	added, err := s.app.AddTask(r.Context(), t)
	if err != nil {
		fail(w, r, err)
		return
	}
	clog.AddAttribute(r.Context(), "task_id", added.ID)
	writeJSON(w, http.StatusCreated, added)
}

type completeRequest struct {
	ActualMinutes   float64 `json:"actual_minutes"`
	FocusLevel      int     `json:"focus_level"`
	Interruptions   int     `json:"interruption_count"`
	ContextSwitches int     `json:"context_switch_count"`
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	clog.AddAttribute(r.Context(), "task_id", id)

	var req completeRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.FocusLevel == 0 {
		req.FocusLevel = task.DefaultFocusLevel
	}
	t, err := s.app.CompleteTask(r.Context(), id, task.Completion{
		ActualMinutes:   req.ActualMinutes,
		FocusLevel:      req.FocusLevel,
		Interruptions:   req.Interruptions,
		ContextSwitches: req.ContextSwitches,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleClearTasks(w http.ResponseWriter, r *http.Request) {
	n, err := s.app.Clear(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

// ─── Analytics ──────────────────────────────────────────────────────────────

// day reads the date query parameter, defaulting to today.
func (s *Server) day(r *http.Request) (time.Time, error) {
	q := r.URL.Query().Get("date")
	if q == "" {
		return s.app.Now(), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, q, time.Local)
	if err != nil {
		return time.Time{}, BadRequestError{Reason: fmt.Sprintf("date must be YYYY-MM-DD, got %q", q)}
	}
	return d, nil
}

func (s *Server) handleCognitiveLoad(w http.ResponseWriter, r *http.Request) {
	d, err := s.day(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.CognitiveLoad(d))
}

func (s *Server) handleRealism(w http.ResponseWriter, r *http.Request) {
	d, err := s.day(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Realism(d))
}

func (s *Server) handleFatigue(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"days": s.app.Fatigue()})
}

// optional wraps results that need history to exist.
type optional[T any] struct {
	Available bool `json:"available"`
	Result    *T   `json:"result,omitempty"`
}

func available[T any](v T, ok bool) optional[T] {
	if !ok {
		return optional[T]{}
	}
	return optional[T]{Available: true, Result: &v}
}

func (s *Server) handleInterruptions(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.app.Interruptions()
	writeJSON(w, http.StatusOK, available(result, ok))
}

func (s *Server) handleRhythm(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.app.Rhythm()
	writeJSON(w, http.StatusOK, available(result, ok))
}

// ─── Drift ──────────────────────────────────────────────────────────────────

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	result, err := s.app.Train(r.Context())
	var insufficient clarityerrors.InsufficientDataError
	if err != nil && !errors.As(err, &insufficient) {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, r, err)
		return
	}
	t, err := req.task()
	if err != nil {
		fail(w, r, err)
		return
	}
	t.ID = "prediction"
	if t.ScheduledAt.IsZero() {
		t.ScheduledAt = s.app.Now()
	}
	if err = t.Validate(); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Predict(t))
}

// ─── Planning ───────────────────────────────────────────────────────────────

func (s *Server) handlePriorities(w http.ResponseWriter, r *http.Request) {
	var req dashboard.PlanRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, r, err)
		return
	}
	plan, err := s.app.Plan(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type moodRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, r, err)
		return
	}
	report, err := s.app.Mood(req.Text, req.Score)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Snapshot(r.Context()))
}

// ─── Data ───────────────────────────────────────────────────────────────────

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.app.Export()
	if err != nil {
		fail(w, r, err)
		return
	}
	name := fmt.Sprintf("clarity-export-%s.json", s.app.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		fail(w, r, BadRequestError{Reason: err.Error()})
		return
	}
	n, err := s.app.Import(r.Context(), data)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

type sampleRequest struct {
	Count int `json:"count"`
}

type sampleResponse struct {
	Generated int         `json:"generated"`
	Tasks     []task.Task `json:"tasks"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	var req sampleRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Count < 0 || req.Count > maxSampleCount {
		fail(w, r, BadRequestError{Reason: fmt.Sprintf("count must be within 0-%d", maxSampleCount)})
		return
	}
	tasks, err := s.app.GenerateSample(r.Context(), req.Count)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sampleResponse{Generated: len(tasks), Tasks: tasks})
}
