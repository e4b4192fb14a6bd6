// Package output renders command results for the terminal or as JSON.
package output

import (
	"github.com/abatilo/clarity/internal/analytics"
	"github.com/abatilo/clarity/internal/dashboard"
	"github.com/abatilo/clarity/internal/drift"
	"github.com/abatilo/clarity/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatTaskList(tasks []task.Task) string
	FormatError(err error) string
	FormatMessage(msg string) string

	FormatLoad(r analytics.LoadResult) string
	FormatRealism(r analytics.RealismResult) string
	FormatFatigue(days []analytics.FatigueDay) string
	FormatInterruptions(r analytics.InterruptionResult, ok bool) string
	FormatRhythm(r analytics.RhythmResult, ok bool) string

	FormatTrainResult(r drift.TrainResult) string
	FormatPrediction(p drift.Prediction) string

	FormatPlan(p dashboard.Plan) string
	FormatMood(m dashboard.MoodReport) string
	FormatSnapshot(s dashboard.Snapshot) string
}
