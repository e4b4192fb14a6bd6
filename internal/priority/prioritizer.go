// Package priority ranks pending tasks by a weighted blend of urgency, impact,
// effort, energy alignment and strategic value, and derives views from the ranking:
// top picks, quick wins, deferrable work and a time-boxed schedule.
package priority

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/task"
)

// NeutralStrategicValue is used until a scorer says otherwise.
const NeutralStrategicValue = 50

// Weights maps each factor to its share of the priority score.
type Weights struct {
	Urgency         float64 `json:"urgency"          toml:"urgency"`
	Impact          float64 `json:"impact"           toml:"impact"`
	Effort          float64 `json:"effort"           toml:"effort"`
	EnergyAlignment float64 `json:"energy_alignment" toml:"energy_alignment" split_words:"true"`
	StrategicValue  float64 `json:"strategic_value"  toml:"strategic_value"  split_words:"true"`
}

// DefaultWeights returns the standard factor weights, summing to 1.
func DefaultWeights() Weights {
	return Weights{
		Urgency:         0.30,
		Impact:          0.25,
		Effort:          0.15,
		EnergyAlignment: 0.15,
		StrategicValue:  0.15,
	}
}

// Validate rejects negative or all-zero weights.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"urgency":          w.Urgency,
		"impact":           w.Impact,
		"effort":           w.Effort,
		"energy_alignment": w.EnergyAlignment,
		"strategic_value":  w.StrategicValue,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative: %v", name, v)
		}
	}
	if w == (Weights{}) {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

// Options configures Prioritize.
type Options struct {
	Now     time.Time
	Energy  int
	Weights Weights
}

// DefaultOptions scores against the current time at medium energy.
func DefaultOptions() Options {
	return Options{Now: time.Now(), Energy: DefaultEnergy, Weights: DefaultWeights()}
}

// Validate checks the energy level and weights.
func (o Options) Validate() error {
	if o.Energy < MinEnergy || o.Energy > MaxEnergy {
		return clarityerrors.InvalidEnergyError{Value: o.Energy}
	}
	return o.Weights.Validate()
}

// Scored is a task with its factor scores.
type Scored struct {
	Task                 task.Task `json:"task"`
	PriorityScore        float64   `json:"priority_score"`
	UrgencyScore         float64   `json:"urgency_score"`
	ImpactScore          float64   `json:"impact_score"`
	EffortScore          float64   `json:"effort_score"`
	EnergyAlignmentScore float64   `json:"energy_alignment_score"`
	StrategicValueScore  float64   `json:"strategic_value_score"`
	Reasoning            string    `json:"ai_reasoning,omitempty"`
}

// Score recomputes the weighted priority from the factor scores.
func (s Scored) Score(w Weights) float64 {
	return w.Urgency*s.UrgencyScore +
		w.Impact*s.ImpactScore +
		w.Effort*s.EffortScore +
		w.EnergyAlignment*s.EnergyAlignmentScore +
		w.StrategicValue*s.StrategicValueScore
}

// Prioritize scores incomplete tasks and orders them by priority, highest first.
// Ties keep input order.
func Prioritize(tasks []task.Task, opts Options) []Scored {
	hour := opts.Now.Hour()
	scored := make([]Scored, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		s := Scored{
			Task:                 t,
			UrgencyScore:         Urgency(t, opts.Now),
			ImpactScore:          Impact(t),
			EffortScore:          Effort(t),
			EnergyAlignmentScore: EnergyAlignment(t, opts.Energy, hour),
			StrategicValueScore:  NeutralStrategicValue,
		}
		s.PriorityScore = s.Score(opts.Weights)
		scored = append(scored, s)
	}
	sortByPriority(scored)
	return scored
}

func sortByPriority(scored []Scored) {
	slices.SortStableFunc(scored, func(a, b Scored) int {
		return cmp.Compare(b.PriorityScore, a.PriorityScore)
	})
}
