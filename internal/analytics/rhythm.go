package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/abatilo/clarity/internal/task"
)

const hoursPerDay = 24

// HourValue is an hourly mean.
type HourValue struct {
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
}

// RhythmResult describes focus and drift by hour of day.
type RhythmResult struct {
	HourlyFocus    []HourValue `json:"hourly_focus"`
	HourlyDrift    []HourValue `json:"hourly_drift"`
	BestFocusHour  int         `json:"best_focus_hour"`
	BestFocusValue float64     `json:"best_focus_value"`
	WorstDriftHour int         `json:"worst_drift_hour"`
	// WorstDriftValue is the largest mean overrun; under-running hours are never the worst.
	WorstDriftValue float64 `json:"worst_drift_value"`
}

// ProductivityRhythm groups completed tasks by scheduled hour.
// It returns false when no completed task has a recorded duration.
func ProductivityRhythm(tasks []task.Task) (RhythmResult, bool) {
	var focus, drift [hoursPerDay][]float64
	seen := false
	for _, t := range tasks {
		if !t.HasOutcome() {
			continue
		}
		actual, _ := t.Actual()
		h := t.Hour()
		focus[h] = append(focus[h], float64(t.FocusLevel))
		drift[h] = append(drift[h], (actual-t.EstimatedMinutes)/t.EstimatedMinutes*100)
		seen = true
	}
	if !seen {
		return RhythmResult{}, false
	}

	var result RhythmResult
	for h := range hoursPerDay {
		if len(focus[h]) == 0 {
			continue
		}
		meanFocus := stat.Mean(focus[h], nil)
		meanDrift := stat.Mean(drift[h], nil)
		first := len(result.HourlyFocus) == 0
		result.HourlyFocus = append(result.HourlyFocus, HourValue{Hour: h, Value: meanFocus})
		result.HourlyDrift = append(result.HourlyDrift, HourValue{Hour: h, Value: meanDrift})

		// Strict comparisons keep the earliest hour on ties.
		if first || meanFocus > result.BestFocusValue {
			result.BestFocusHour, result.BestFocusValue = h, meanFocus
		}
		if first || meanDrift > result.WorstDriftValue {
			result.WorstDriftHour, result.WorstDriftValue = h, meanDrift
		}
	}
	return result, true
}
