// Package drift predicts how far a task's actual duration will drift from its estimate.
//
// A Predictor owns at most one trained model. Train builds a replacement off to the
// side and swaps it in only after a successful fit, so Predict always sees a
// complete model or none at all.
package drift

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/task"
)

// MinTrainingSamples is the number of completed tasks required to train.
const MinTrainingSamples = 20

const (
	trainFraction    = 0.8
	heuristicPadding = 1.2
)

// Prediction methods.
const (
	MethodHeuristic = "heuristic"
	MethodModel     = "ml_model"
)

// Training statuses.
const (
	StatusSuccess          = "success"
	StatusInsufficientData = "insufficient_data"
)

// Model is an immutable trained model.
type Model struct {
	ID        uuid.UUID
	TrainedAt time.Time
	MAE       float64
	Samples   int
	ensemble  *ensemble
}

// PredictRatio returns the predicted actual/estimated ratio for a feature row.
func (m *Model) PredictRatio(features []float64) float64 {
	return m.ensemble.predict(features)
}

// TrainResult reports the outcome of Train.
type TrainResult struct {
	Status      string     `json:"status"`
	MAE         float64    `json:"mae,omitempty"`
	Samples     int        `json:"samples,omitempty"`
	TasksNeeded int        `json:"tasks_needed,omitempty"`
	ModelID     *uuid.UUID `json:"model_id,omitempty"`
}

// MarshalJSON always writes mae and samples for a successful fit and leaves
// them out of an insufficient_data result.
func (r TrainResult) MarshalJSON() ([]byte, error) {
	if r.Status == StatusInsufficientData {
		return json.Marshal(struct {
			Status      string `json:"status"`
			TasksNeeded int    `json:"tasks_needed"`
		}{r.Status, r.TasksNeeded})
	}
	return json.Marshal(struct {
		Status  string     `json:"status"`
		MAE     float64    `json:"mae"`
		Samples int        `json:"samples"`
		ModelID *uuid.UUID `json:"model_id,omitempty"`
	}{r.Status, r.MAE, r.Samples, r.ModelID})
}

// Prediction is a duration forecast for one task.
type Prediction struct {
	UserEstimate float64 `json:"user_estimate"`
	AIPrediction float64 `json:"ai_prediction"`
	// DriftRatio is set only when a trained model produced the prediction.
	DriftRatio *float64 `json:"drift_ratio,omitempty"`
	Method     string   `json:"method"`
}

// Predictor trains and serves the drift model.
type Predictor struct {
	mu     sync.Mutex
	model  atomic.Pointer[Model]
	params Params
	now    func() time.Time
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithParams overrides the ensemble parameters.
func WithParams(p Params) Option {
	return func(pr *Predictor) { pr.params = p }
}

// WithClock overrides the clock used to stamp trained models.
func WithClock(now func() time.Time) Option {
	return func(pr *Predictor) { pr.now = now }
}

// NewPredictor creates a Predictor with no trained model.
func NewPredictor(opts ...Option) *Predictor {
	p := &Predictor{params: DefaultParams(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Trained reports whether a model is available.
func (p *Predictor) Trained() bool {
	return p.model.Load() != nil
}

// Model returns the current model, or nil.
func (p *Predictor) Model() *Model {
	return p.model.Load()
}

// Train fits a model on completed tasks with recorded durations.
//
// With fewer than MinTrainingSamples usable tasks it returns an insufficient_data
// result together with an InsufficientDataError and keeps any previous model.
// Rows are split 80/20 in input order; MAE is measured on the held-out rows.
func (p *Predictor) Train(ctx context.Context, tasks []task.Task) (TrainResult, error) {
	rows, targets := Dataset(tasks)
	if len(rows) < MinTrainingSamples {
		err := clarityerrors.InsufficientDataError{Have: len(rows), Need: MinTrainingSamples}
		return TrainResult{Status: StatusInsufficientData, TasksNeeded: err.Needed()}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	split := int(float64(len(rows)) * trainFraction)
	ens, err := fit(ctx, rows[:split], targets[:split], p.params)
	if err != nil {
		return TrainResult{}, err
	}

	predicted := make([]float64, len(rows)-split)
	for i, x := range rows[split:] {
		predicted[i] = ens.predict(x)
	}
	floats.Sub(predicted, targets[split:])
	mae := floats.Norm(predicted, 1) / float64(len(predicted))

	m := &Model{
		ID:        uuid.New(),
		TrainedAt: p.now(),
		MAE:       mae,
		Samples:   len(rows),
		ensemble:  ens,
	}
	p.model.Store(m)
	slog.DebugContext(ctx, "drift model trained", "model_id", m.ID, "samples", m.Samples, "mae", m.MAE)

	return TrainResult{Status: StatusSuccess, MAE: mae, Samples: len(rows), ModelID: &m.ID}, nil
}

// Predict forecasts the duration of t. Without a model it pads the estimate by 20%.
func (p *Predictor) Predict(t task.Task) Prediction {
	m := p.model.Load()
	if m == nil {
		return Prediction{
			UserEstimate: t.EstimatedMinutes,
			AIPrediction: round1(t.EstimatedMinutes * heuristicPadding),
			Method:       MethodHeuristic,
		}
	}
	ratio := m.PredictRatio(Features(t))
	return Prediction{
		UserEstimate: t.EstimatedMinutes,
		AIPrediction: round1(t.EstimatedMinutes * ratio),
		DriftRatio:   &ratio,
		Method:       MethodModel,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
