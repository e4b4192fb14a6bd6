package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/abatilo/clarity/internal/task"
)

// InterruptionResult is the average extra time each interruption costs.
type InterruptionResult struct {
	OverallAvgCostPerInterrupt float64            `json:"overall_avg_cost_per_interrupt"`
	ByTaskType                 map[string]float64 `json:"by_task_type"`
	Samples                    int                `json:"samples"`
}

// InterruptionCost estimates minutes lost per interruption, overall and by task type.
// Only completed tasks with at least one interruption count as samples.
// It returns false when no task qualifies.
func InterruptionCost(tasks []task.Task) (InterruptionResult, bool) {
	var overall []float64
	byType := map[string][]float64{}
	for _, t := range tasks {
		if !t.HasOutcome() || t.InterruptionCount <= 0 {
			continue
		}
		actual, _ := t.Actual()
		cost := (actual - t.EstimatedMinutes) / float64(t.InterruptionCount)
		overall = append(overall, cost)
		byType[t.Bucket()] = append(byType[t.Bucket()], cost)
	}
	if len(overall) == 0 {
		return InterruptionResult{}, false
	}

	result := InterruptionResult{
		OverallAvgCostPerInterrupt: stat.Mean(overall, nil),
		ByTaskType:                 make(map[string]float64, len(byType)),
		Samples:                    len(overall),
	}
	for label, costs := range byType {
		result.ByTaskType[label] = stat.Mean(costs, nil)
	}
	return result, true
}
