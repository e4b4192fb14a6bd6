package priority

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sourcegraph/conc/panics"
)

// DefaultStrategicTimeout bounds a strategic scoring call when the caller's
// context carries no deadline.
const DefaultStrategicTimeout = 15 * time.Second

// ExplainTopN is the number of leading tasks handed to an Explainer.
const ExplainTopN = 5

// TaskSummary is the view of a scored task sent to a strategic scorer.
type TaskSummary struct {
	Index            int     `json:"index"`
	Type             string  `json:"type"`
	EstimatedMinutes float64 `json:"estimated_minutes"`
	Complexity       float64 `json:"complexity"`
	Scheduled        string  `json:"scheduled"`
	CurrentPriority  float64 `json:"current_priority_score"`
}

// StrategicRequest carries the free-text situation and goals to score against.
type StrategicRequest struct {
	Context string `json:"context"`
	Goals   string `json:"goals"`
}

// StrategicScore is a scorer's verdict for the task at Index.
type StrategicScore struct {
	Index     int     `json:"index"`
	Score     float64 `json:"strategic_value_score"`
	Reasoning string  `json:"reasoning"`
}

// StrategicScorer assigns long-term strategic value to tasks.
type StrategicScorer interface {
	ScoreStrategicValue(ctx context.Context, tasks []TaskSummary, req StrategicRequest) ([]StrategicScore, error)
}

// NoopScorer leaves every task at the neutral strategic value.
type NoopScorer struct{}

// ScoreStrategicValue returns no scores.
func (NoopScorer) ScoreStrategicValue(context.Context, []TaskSummary, StrategicRequest) ([]StrategicScore, error) {
	return nil, nil
}

// Summaries builds scorer input from a ranked list.
func Summaries(scored []Scored) []TaskSummary {
	out := make([]TaskSummary, len(scored))
	for i, s := range scored {
		out[i] = TaskSummary{
			Index:            i,
			Type:             s.Task.Type,
			EstimatedMinutes: s.Task.EstimatedMinutes,
			Complexity:       s.Task.ComplexityScore,
			Scheduled:        s.Task.ScheduledAt.Format("03:04 PM"),
			CurrentPriority:  math.Round(s.PriorityScore*10) / 10,
		}
	}
	return out
}

// Enhance asks scorer for strategic values, applies them, recomputes priority
// with w and re-sorts. Any scorer failure, panic or timeout leaves the ranking
// untouched. The returned bool reports whether at least one score was applied.
func Enhance(ctx context.Context, scored []Scored, scorer StrategicScorer, req StrategicRequest, w Weights) ([]Scored, bool) {
	if len(scored) == 0 || scorer == nil {
		return scored, false
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultStrategicTimeout)
		defer cancel()
	}

	var (
		scores []StrategicScore
		err    error
	)
	var catcher panics.Catcher
	catcher.Try(func() {
		scores, err = scorer.ScoreStrategicValue(ctx, Summaries(scored), req)
	})
	if r := catcher.Recovered(); r != nil {
		err = r.AsError()
	}
	if err != nil {
		slog.WarnContext(ctx, "strategic scoring failed, keeping local ranking", "error", err)
		return scored, false
	}

	out := make([]Scored, len(scored))
	copy(out, scored)
	applied := false
	for _, sc := range scores {
		if sc.Index < 0 || sc.Index >= len(out) {
			continue
		}
		s := &out[sc.Index]
		s.StrategicValueScore = clamp(sc.Score, 0, 100)
		s.Reasoning = sc.Reasoning
		s.PriorityScore = s.Score(w)
		applied = true
	}
	if !applied {
		return scored, false
	}
	sortByPriority(out)
	return out, true
}

// ExplainItem is the view of a ranked task sent to an Explainer.
type ExplainItem struct {
	Rank             int     `json:"rank"`
	Type             string  `json:"type"`
	EstimatedMinutes float64 `json:"estimated_time"`
	Complexity       float64 `json:"complexity"`
	Urgency          float64 `json:"urgency_score"`
	Impact           float64 `json:"impact_score"`
	EnergyAlignment  float64 `json:"energy_alignment"`
	StrategicValue   float64 `json:"strategic_value"`
	Priority         float64 `json:"final_priority"`
	Reasoning        string  `json:"ai_reasoning,omitempty"`
}

// Explainer writes a short natural-language rationale for a ranking.
type Explainer interface {
	Explain(ctx context.Context, items []ExplainItem) (string, error)
}

// Explain describes why the leading tasks are ordered as they are, falling back
// to a fixed sentence when explainer is nil or fails.
func Explain(ctx context.Context, scored []Scored, explainer Explainer) string {
	if len(scored) == 0 {
		return "No tasks to prioritize"
	}
	fallback := fmt.Sprintf("Prioritized by urgency (%.0f%%), impact, and energy alignment.", scored[0].UrgencyScore)
	if explainer == nil {
		return fallback
	}

	top := scored[:min(ExplainTopN, len(scored))]
	items := make([]ExplainItem, len(top))
	for i, s := range top {
		items[i] = ExplainItem{
			Rank:             i + 1,
			Type:             s.Task.Type,
			EstimatedMinutes: s.Task.EstimatedMinutes,
			Complexity:       s.Task.ComplexityScore,
			Urgency:          round1(s.UrgencyScore),
			Impact:           round1(s.ImpactScore),
			EnergyAlignment:  round1(s.EnergyAlignmentScore),
			StrategicValue:   round1(s.StrategicValueScore),
			Priority:         round1(s.PriorityScore),
			Reasoning:        s.Reasoning,
		}
	}

	var (
		text string
		err  error
	)
	var catcher panics.Catcher
	catcher.Try(func() { text, err = explainer.Explain(ctx, items) })
	if r := catcher.Recovered(); r != nil {
		err = r.AsError()
	}
	if err != nil || text == "" {
		if err != nil {
			slog.WarnContext(ctx, "explanation failed, using fallback", "error", err)
		}
		return fallback
	}
	return text
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
