package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/abatilo/clarity/internal/analytics"
	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/metrics"
	"github.com/abatilo/clarity/internal/mood"
	"github.com/abatilo/clarity/internal/priority"
	"github.com/abatilo/clarity/internal/task"
)

// RhythmMinSamples is the number of completed tasks with a recorded duration
// the dashboard waits for before showing a rhythm.
const RhythmMinSamples = 5

// CognitiveLoad scores the tasks scheduled on day's local date.
func (a *App) CognitiveLoad(day time.Time) analytics.LoadResult {
	return analytics.CognitiveLoad(task.SortBySchedule(a.store.List(task.ScheduledOn(day))))
}

// Realism scores the plan for day's local date against the drift predictor.
func (a *App) Realism(day time.Time) analytics.RealismResult {
	return analytics.ScheduleRealism(a.store.List(task.ScheduledOn(day)), countingPredictor{a.predictor})
}

// Fatigue reports decision fatigue per day.
func (a *App) Fatigue() []analytics.FatigueDay {
	return analytics.DecisionFatigue(a.store.All())
}

// Interruptions reports interruption cost. It returns false without samples.
func (a *App) Interruptions() (analytics.InterruptionResult, bool) {
	return analytics.InterruptionCost(a.store.All())
}

// Rhythm reports focus and drift by hour. It returns false without samples.
func (a *App) Rhythm() (analytics.RhythmResult, bool) {
	return analytics.ProductivityRhythm(a.store.All())
}

// PlanRequest parameterizes a prioritized plan. Zero values fall back to configuration.
type PlanRequest struct {
	Energy         int     `json:"energy"`
	Mood           string  `json:"mood"`
	Context        string  `json:"context"`
	Goals          string  `json:"goals"`
	AvailableHours float64 `json:"available_hours"`
	Enhance        bool    `json:"enhance"`
	Explain        bool    `json:"explain"`
}

// Plan is a prioritized view of the pending work.
type Plan struct {
	Energy      int               `json:"energy"`
	Mood        *mood.Reading     `json:"mood,omitempty"`
	Tasks       []priority.Scored `json:"prioritized_tasks"`
	Enhanced    bool              `json:"ai_enhanced"`
	Insights    priority.Insights `json:"insights"`
	Schedule    priority.Schedule `json:"schedule"`
	Matrix      priority.Matrix   `json:"matrix"`
	Explanation string            `json:"explanation,omitempty"`
}

// Plan ranks the incomplete tasks.
//
// Energy comes from the request, then from the mood text, then from configuration.
// Strategic enhancement and the explanation degrade to their fallbacks when the
// text-generation service is unavailable.
func (a *App) Plan(ctx context.Context, req PlanRequest) (Plan, error) {
	var plan Plan
	energy := req.Energy
	if strings.TrimSpace(req.Mood) != "" {
		reading := mood.Interpret(req.Mood)
		plan.Mood = &reading
		if energy == 0 {
			energy = reading.EnergyLevel()
		}
	}
	if energy == 0 {
		energy = a.cfg.Planning.Energy
	}
	hours := req.AvailableHours
	if hours == 0 {
		hours = a.cfg.Planning.AvailableHours
	}
	if hours < 0 {
		return Plan{}, clarityerrors.InvalidTaskError{Reason: "available_hours must not be negative"}
	}

	now := a.now()
	opts := priority.Options{Now: now, Energy: energy, Weights: a.cfg.Planning.Weights}
	if err := opts.Validate(); err != nil {
		return Plan{}, err
	}

	scored := priority.Prioritize(a.store.List(task.IncompleteOnly()), opts)
	if req.Enhance {
		scored, plan.Enhanced = priority.Enhance(ctx, scored, a.scorer,
			priority.StrategicRequest{Context: req.Context, Goals: req.Goals}, opts.Weights)
		metrics.RecordEnhancement(plan.Enhanced)
	}

	plan.Energy = energy
	plan.Tasks = scored
	plan.Insights = priority.Analyze(scored)
	plan.Schedule = priority.SuggestSchedule(scored, now, hours)
	plan.Matrix = priority.Quadrants(scored)
	if req.Explain {
		plan.Explanation = priority.Explain(ctx, scored, a.explainer)
	}
	return plan, nil
}

// MoodReport matches pending work to a mood.
type MoodReport struct {
	Reading    mood.Reading    `json:"reading"`
	Coaching   string          `json:"coaching"`
	Suggestion mood.Suggestion `json:"suggestion"`
}

// Mood interprets text, or uses score when it is non-zero, and splits the
// pending tasks by fit.
func (a *App) Mood(text string, score int) (MoodReport, error) {
	reading := mood.Interpret(text)
	if score != 0 {
		if score < mood.MinScore || score > mood.MaxScore {
			return MoodReport{}, clarityerrors.InvalidEnergyError{Value: score}
		}
		reading = mood.Reading{Score: score, Energy: mood.EnergyLabel(score), Explanation: "Self-reported mood."}
	}
	return MoodReport{
		Reading:    reading,
		Coaching:   mood.Coaching(reading.Score),
		Suggestion: mood.Suggest(a.store.All(), reading.Score),
	}, nil
}
