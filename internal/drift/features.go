package drift

import "github.com/abatilo/clarity/internal/task"

// FeatureNames lists the model inputs in vector order.
//
//nolint:gochecknoglobals // fixed schema
var FeatureNames = []string{
	"estimated_minutes",
	"type_encoded",
	"complexity_score",
	"hour_of_day",
	"day_of_week",
	"is_morning",
	"is_afternoon",
	"interruption_count",
	"context_switch_count",
}

const (
	noonHour      = 12
	afternoonHour = 17
)

// Features builds the model input vector for a task.
func Features(t task.Task) []float64 {
	hour := t.Hour()
	return []float64{
		t.EstimatedMinutes,
		float64(task.TypeIndex(t.Type)),
		t.ComplexityScore,
		float64(hour),
		float64(t.DayOfWeek()),
		boolFloat(hour < noonHour),
		boolFloat(hour >= noonHour && hour < afternoonHour),
		float64(t.InterruptionCount),
		float64(t.ContextSwitchCount),
	}
}

// Ratio returns actual/estimated for a completed task, or false when it has no usable outcome.
func Ratio(t task.Task) (float64, bool) {
	if !t.HasOutcome() {
		return 0, false
	}
	actual, _ := t.Actual()
	return actual / t.EstimatedMinutes, true
}

// Dataset builds feature rows and drift-ratio targets from a task history, preserving order.
func Dataset(tasks []task.Task) ([][]float64, []float64) {
	var (
		rows    [][]float64
		targets []float64
	)
	for _, t := range tasks {
		ratio, ok := Ratio(t)
		if !ok {
			continue
		}
		rows = append(rows, Features(t))
		targets = append(targets, ratio)
	}
	return rows, targets
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
