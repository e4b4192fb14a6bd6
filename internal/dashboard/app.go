// Package dashboard is the application context shared by the CLI and the HTTP API.
//
// An App owns the loaded task store, the repository it was loaded from, the drift
// predictor and the optional text-generation collaborators. Mutations are saved back
// through the repository before they return.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abatilo/clarity/internal/config"
	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/drift"
	"github.com/abatilo/clarity/internal/llm"
	"github.com/abatilo/clarity/internal/metrics"
	"github.com/abatilo/clarity/internal/priority"
	"github.com/abatilo/clarity/internal/sample"
	"github.com/abatilo/clarity/internal/storage"
	"github.com/abatilo/clarity/internal/task"
)

// App is the explicit application context.
type App struct {
	cfg       config.Config
	repo      storage.Repository
	store     *task.Store
	predictor *drift.Predictor
	scorer    priority.StrategicScorer
	explainer priority.Explainer
	now       func() time.Time
	rng       *rand.Rand

	// mu serializes a mutation with the save that follows it.
	mu sync.Mutex
}

// Option configures an App.
type Option func(*App)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithScorer overrides the strategic scorer.
func WithScorer(s priority.StrategicScorer) Option {
	return func(a *App) {
		a.scorer = s
	}
}

// WithExplainer overrides the plan explainer.
func WithExplainer(e priority.Explainer) Option {
	return func(a *App) {
		a.explainer = e
	}
}

// WithRand sets the random source used for sample data.
func WithRand(rng *rand.Rand) Option {
	return func(a *App) {
		a.rng = rng
	}
}

// Open opens the configured repository and loads it.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	repo, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, err
	}
	app, err := New(ctx, cfg, repo, opts...)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	return app, nil
}

// New loads the task history from repo. When drift.auto_train is set the
// predictor is trained on the loaded history.
func New(ctx context.Context, cfg config.Config, repo storage.Repository, opts ...Option) (*App, error) {
	client := llm.New(cfg.LLMConfig())
	a := &App{
		cfg:       cfg,
		repo:      repo,
		scorer:    client,
		explainer: client,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(uint64(a.now().UnixNano()), rand.Uint64())) //nolint:gosec // sample data only
	}
	a.predictor = drift.NewPredictor(drift.WithClock(a.now))

	tasks, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	a.store, err = task.NewStore(tasks...)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	slog.DebugContext(ctx, "tasks loaded", "count", a.store.Len())
	a.recordTasks()

	if cfg.Drift.AutoTrain {
		a.autoTrain(ctx)
	}
	return a, nil
}

// Close releases the repository.
func (a *App) Close() error {
	return a.repo.Close()
}

// Config returns the configuration the App was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// Store returns the in-memory task collection.
func (a *App) Store() *task.Store {
	return a.store
}

// Predictor returns the drift predictor.
func (a *App) Predictor() *drift.Predictor {
	return a.predictor
}

// Now returns the current time from the App's clock.
func (a *App) Now() time.Time {
	return a.now()
}

// Tasks lists tasks through a named filter.
func (a *App) Tasks(filter string) ([]task.Task, error) {
	f, err := task.ParseFilter(filter, a.now())
	if err != nil {
		return nil, err
	}
	return a.store.List(f), nil
}

// Today returns the tasks scheduled on the current local date.
func (a *App) Today() []task.Task {
	return a.store.List(task.ScheduledOn(a.now()))
}

// AddTask stores t and saves. A missing ID is generated and a zero
// ScheduledAt means now.
func (a *App) AddTask(ctx context.Context, t task.Task) (task.Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t.ID == "" {
		t.ID = task.GenerateID(a.store.Exists)
	}
	if t.ScheduledAt.IsZero() {
		t.ScheduledAt = a.now()
	}
	if t.FocusLevel == 0 {
		t.FocusLevel = task.DefaultFocusLevel
	}
	if err := a.mutate(ctx, func() error { return a.store.Add(t) }); err != nil {
		return task.Task{}, err
	}
	slog.InfoContext(ctx, "task added", "task_id", t.ID, "type", t.Type)
	return t, nil
}

// CompleteTask records the outcome of a task and saves.
func (a *App) CompleteTask(ctx context.Context, id string, c task.Completion) (task.Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var t task.Task
	err := a.mutate(ctx, func() error {
		done, completeErr := a.store.Complete(id, c)
		t = done
		return completeErr
	})
	if err != nil {
		return task.Task{}, err
	}
	slog.InfoContext(ctx, "task completed", "task_id", id, "actual_minutes", c.ActualMinutes)
	a.retrain(ctx)
	return t, nil
}

// Clear removes every task and saves. It returns how many were removed.
func (a *App) Clear(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.store.Len()
	err := a.mutate(ctx, func() error {
		a.store.Clear()
		return nil
	})
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "tasks cleared", "count", n)
	return n, nil
}

// Export serializes every task with the current time.
func (a *App) Export() ([]byte, error) {
	return storage.Export(a.store.All(), a.now())
}

// Import appends the tasks of an export and saves. Nothing is added when any
// imported ID is already stored.
func (a *App) Import(ctx context.Context, data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tasks, err := storage.Import(data, a.store.Exists)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] || a.store.Exists(t.ID) {
			return 0, clarityerrors.AlreadyExistsError{ID: t.ID}
		}
		seen[t.ID] = true
	}
	if err = a.addAll(ctx, tasks); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "tasks imported", "count", len(tasks))
	a.retrain(ctx)
	return len(tasks), nil
}

// GenerateSample appends n synthetic tasks and saves.
func (a *App) GenerateSample(ctx context.Context, n int) ([]task.Task, error) {
	if n <= 0 {
		n = sample.DefaultCount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	tasks := sample.Generate(n, a.now(), a.rng, a.store.Exists)
	if err := a.addAll(ctx, tasks); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "sample tasks generated", "count", len(tasks))
	a.retrain(ctx)
	return tasks, nil
}

func (a *App) addAll(ctx context.Context, tasks []task.Task) error {
	return a.mutate(ctx, func() error {
		for _, t := range tasks {
			if err := a.store.Add(t); err != nil {
				return err
			}
		}
		return nil
	})
}

// mutate applies change to the store and saves the result. The store is
// restored to its prior contents when either step fails. Callers hold mu.
func (a *App) mutate(ctx context.Context, change func() error) error {
	before := a.store.All()
	err := change()
	if err == nil {
		if err = a.repo.Save(ctx, a.store.All()); err != nil {
			err = fmt.Errorf("saving tasks: %w", err)
		}
	}
	if err != nil {
		if restoreErr := a.store.Replace(before); restoreErr != nil {
			return errors.Join(err, restoreErr)
		}
		return err
	}
	a.recordTasks()
	return nil
}

func (a *App) recordTasks() {
	completed := len(a.store.List(task.CompletedOnly()))
	metrics.RecordTasks(completed, a.store.Len()-completed)
}

// Train fits the drift model on the completed history. Insufficient history
// yields an insufficient_data result together with an InsufficientDataError.
func (a *App) Train(ctx context.Context) (drift.TrainResult, error) {
	result, err := a.predictor.Train(ctx, a.store.List(task.CompletedOnly()))
	var insufficient clarityerrors.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		metrics.DriftTrainings.WithLabelValues(drift.StatusInsufficientData).Inc()
	case err != nil:
		metrics.DriftTrainings.WithLabelValues("error").Inc()
	default:
		metrics.DriftTrainings.WithLabelValues(drift.StatusSuccess).Inc()
		metrics.DriftMAE.Set(result.MAE)
	}
	return result, err
}

func (a *App) autoTrain(ctx context.Context) {
	_, err := a.Train(ctx)
	var insufficient clarityerrors.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		slog.InfoContext(ctx, "drift model not trained", "tasks_needed", insufficient.Needed())
	case err != nil:
		slog.WarnContext(ctx, "drift model training failed", "error", err)
	}
}

func (a *App) retrain(ctx context.Context) {
	if a.cfg.Drift.AutoTrain {
		a.autoTrain(ctx)
	}
}

// Predict forecasts the duration of t.
func (a *App) Predict(t task.Task) drift.Prediction {
	return countingPredictor{a.predictor}.Predict(t)
}

// countingPredictor records every prediction by method.
type countingPredictor struct {
	*drift.Predictor
}

func (p countingPredictor) Predict(t task.Task) drift.Prediction {
	pred := p.Predictor.Predict(t)
	metrics.DriftPredictions.WithLabelValues(pred.Method).Inc()
	return pred
}
