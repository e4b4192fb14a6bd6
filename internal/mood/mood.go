// Package mood matches pending work to the user's current mood.
package mood

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/abatilo/clarity/internal/task"
)

// Mood scores run from 1 (drained) to 5 (energized).
const (
	MinScore     = 1
	NeutralScore = 3
	MaxScore     = 5
)

// Energy labels.
const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

const typeBonus = 2.0

//nolint:gochecknoglobals // keyword tables
var (
	lowWords  = []string{"tired", "exhausted", "stressed", "drained", "burnt"}
	highWords = []string{"excited", "motivated", "pumped", "focused"}
)

// ScoreTask rates how well t fits the mood. Higher is better and negative
// means the task is better left for later.
func ScoreTask(t task.Task, mood int) float64 {
	c := t.ComplexityScore
	switch {
	case mood >= 4:
		score := (c - 3) * 0.5
		if t.Type == task.TypeDeepWork || t.Type == task.TypeCoding {
			score += typeBonus
		}
		return score
	case mood <= 2:
		score := (3 - c) * 0.5
		if t.Type == task.TypeAdmin || t.Type == task.TypeCommunication {
			score += typeBonus
		}
		return score
	default:
		return -math.Abs(c-3) * 0.2
	}
}

// Suggestion splits pending tasks by mood fit, best fit first.
type Suggestion struct {
	RecommendedNow []task.Task `json:"recommended_now"`
	BetterForLater []task.Task `json:"better_for_later"`
}

// Suggest scores incomplete tasks against mood.
func Suggest(tasks []task.Task, mood int) Suggestion {
	type fit struct {
		task  task.Task
		score float64
	}
	var fits []fit
	for _, t := range tasks {
		if !t.Completed {
			fits = append(fits, fit{t, ScoreTask(t, mood)})
		}
	}
	slices.SortStableFunc(fits, func(a, b fit) int { return cmp.Compare(b.score, a.score) })

	out := Suggestion{RecommendedNow: []task.Task{}, BetterForLater: []task.Task{}}
	for _, f := range fits {
		if f.score >= 0 {
			out.RecommendedNow = append(out.RecommendedNow, f.task)
		} else {
			out.BetterForLater = append(out.BetterForLater, f.task)
		}
	}
	return out
}

// Reading is an interpretation of a free-text mood description.
type Reading struct {
	Score       int    `json:"mood_score"`
	Energy      string `json:"energy"`
	Explanation string `json:"explanation"`
}

// EnergyLevel maps the reading onto the 1-5 energy scale used for prioritization.
func (r Reading) EnergyLevel() int {
	return max(MinScore, min(MaxScore, r.Score))
}

// EnergyLabel names the energy of a mood score.
func EnergyLabel(score int) string {
	switch {
	case score <= 2:
		return EnergyLow
	case score >= 4:
		return EnergyHigh
	default:
		return EnergyMedium
	}
}

// Interpret reads a mood description with a keyword heuristic.
func Interpret(text string) Reading {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Reading{
			Score:       NeutralScore,
			Energy:      EnergyMedium,
			Explanation: "No mood text provided, defaulting to neutral energy.",
		}
	}

	r := Reading{Score: NeutralScore, Energy: EnergyMedium, Explanation: "Heuristic interpretation."}
	switch {
	case containsAny(text, lowWords):
		r.Score, r.Energy = 2, EnergyLow
	case containsAny(text, highWords):
		r.Score, r.Energy = 4, EnergyHigh
	}
	return r
}

func containsAny(s string, words []string) bool {
	return slices.ContainsFunc(words, func(w string) bool { return strings.Contains(s, w) })
}

// Coaching returns advice for the next block of work.
func Coaching(score int) string {
	switch {
	case score <= 2:
		return "Your energy seems low. Focus on simple, low-stakes tasks like admin or light " +
			"communication. Avoid heavy deep work blocks."
	case score >= 4:
		return "You have good energy right now. This is a great time for deep, high-impact " +
			"tasks that require focus."
	default:
		return "Your energy is moderate. Mix medium-complexity tasks with a few lighter ones, " +
			"and avoid overloading your schedule."
	}
}
