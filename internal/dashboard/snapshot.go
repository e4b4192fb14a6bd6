package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/abatilo/clarity/internal/analytics"
	"github.com/abatilo/clarity/internal/drift"
	"github.com/abatilo/clarity/internal/metrics"
	"github.com/abatilo/clarity/internal/priority"
	"github.com/abatilo/clarity/internal/task"
)

// TopPriorities is the number of ranked tasks a snapshot carries.
const TopPriorities = 5

// Drift model states.
const (
	DriftActive     = "active"
	DriftReady      = "ready"
	DriftCollecting = "collecting"
)

// Counts summarizes the task collection.
type Counts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
	Today      int `json:"today"`
}

// DriftStatus describes the drift model.
type DriftStatus struct {
	State     string     `json:"state"`
	Samples   int        `json:"samples"`
	Needed    int        `json:"tasks_needed,omitempty"`
	ModelID   *uuid.UUID `json:"model_id,omitempty"`
	MAE       *float64   `json:"mae,omitempty"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
}

// Snapshot is the full dashboard at one instant.
type Snapshot struct {
	GeneratedAt   time.Time                     `json:"generated_at"`
	Date          string                        `json:"date"`
	Counts        Counts                        `json:"counts"`
	CognitiveLoad analytics.LoadResult          `json:"cognitive_load"`
	Realism       analytics.RealismResult       `json:"realism"`
	Fatigue       []analytics.FatigueDay        `json:"fatigue"`
	Interruptions *analytics.InterruptionResult `json:"interruptions,omitempty"`
	Rhythm        *analytics.RhythmResult       `json:"rhythm,omitempty"`
	Drift         DriftStatus                   `json:"drift"`
	Priorities    []priority.Scored             `json:"top_priorities"`
	Matrix        priority.Matrix               `json:"matrix"`
}

// Snapshot computes every dashboard view over one copy of the task collection.
// The independent analytics run concurrently.
func (a *App) Snapshot(_ context.Context) Snapshot {
	now := a.now()
	all := a.store.All()
	today := filter(all, task.ScheduledOn(now))
	incomplete := filter(all, task.IncompleteOnly())
	samples := countOutcomes(all)

	snap := Snapshot{
		GeneratedAt: now,
		Date:        now.Format(time.DateOnly),
		Counts: Counts{
			Total:      len(all),
			Completed:  len(all) - len(incomplete),
			Incomplete: len(incomplete),
			Today:      len(today),
		},
		Drift: a.driftStatus(samples),
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		snap.CognitiveLoad = analytics.CognitiveLoad(task.SortBySchedule(today))
	})
	wg.Go(func() {
		snap.Realism = analytics.ScheduleRealism(today, countingPredictor{a.predictor})
	})
	wg.Go(func() {
		snap.Fatigue = analytics.DecisionFatigue(all)
	})
	wg.Go(func() {
		if r, ok := analytics.InterruptionCost(all); ok {
			snap.Interruptions = &r
		}
	})
	wg.Go(func() {
		if samples < RhythmMinSamples {
			return
		}
		if r, ok := analytics.ProductivityRhythm(all); ok {
			snap.Rhythm = &r
		}
	})
	wg.Go(func() {
		opts := priority.Options{Now: now, Energy: a.cfg.Planning.Energy, Weights: a.cfg.Planning.Weights}
		scored := priority.Prioritize(incomplete, opts)
		snap.Matrix = priority.Quadrants(scored)
		snap.Priorities = scored[:min(TopPriorities, len(scored))]
	})
	wg.Wait()

	metrics.CognitiveLoad.Set(snap.CognitiveLoad.Score)
	metrics.Realism.Set(snap.Realism.Score)
	metrics.RecordTasks(snap.Counts.Completed, snap.Counts.Incomplete)
	return snap
}

func (a *App) driftStatus(samples int) DriftStatus {
	if m := a.predictor.Model(); m != nil {
		return DriftStatus{State: DriftActive, Samples: m.Samples, ModelID: &m.ID, MAE: &m.MAE, TrainedAt: &m.TrainedAt}
	}
	if samples >= drift.MinTrainingSamples {
		return DriftStatus{State: DriftReady, Samples: samples}
	}
	return DriftStatus{State: DriftCollecting, Samples: samples, Needed: drift.MinTrainingSamples - samples}
}

func filter(tasks []task.Task, f task.Filter) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func countOutcomes(tasks []task.Task) int {
	n := 0
	for _, t := range tasks {
		if t.HasOutcome() {
			n++
		}
	}
	return n
}
