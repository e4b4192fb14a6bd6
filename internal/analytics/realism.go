package analytics

import (
	"math"

	"github.com/abatilo/clarity/internal/drift"
	"github.com/abatilo/clarity/internal/task"
)

// Component names reported by ScheduleRealism.
const (
	ComponentTimeBudget    = "time_budget"
	ComponentHistoricalFit = "historical_fit"
	ComponentBuffer        = "buffer"
)

// AvailableMinutes is the working day the realism score plans against.
const AvailableMinutes = 480.0

const (
	neutralHistoricalFit = 70
	comfortableFit       = 0.9

	budgetWeight     = 0.40
	historicalWeight = 0.35
	bufferWeight     = 0.25
)

// DurationPredictor predicts task durations from history.
type DurationPredictor interface {
	Trained() bool
	Predict(t task.Task) drift.Prediction
}

// RealismResult is the realism of one day's plan.
type RealismResult struct {
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
	Level      Level              `json:"level"`
}

// ScheduleRealism scores whether a day's plan fits in the working day.
// predictor may be nil or untrained, in which case historical fit is neutral.
func ScheduleRealism(tasks []task.Task, predictor DurationPredictor) RealismResult {
	if len(tasks) == 0 {
		return RealismResult{Score: 100, Components: map[string]float64{}, Level: LevelHigh}
	}

	var estimated float64
	for _, t := range tasks {
		estimated += t.EstimatedMinutes
	}

	budget := timeBudgetScore(estimated / AvailableMinutes)
	fit := historicalFitScore(tasks, predictor)
	buffer := bufferScore((AvailableMinutes - estimated) / AvailableMinutes)

	score := budgetWeight*budget + historicalWeight*fit + bufferWeight*buffer

	return RealismResult{
		Score: Round1(score),
		Components: map[string]float64{
			ComponentTimeBudget:    Round1(budget),
			ComponentHistoricalFit: Round1(fit),
			ComponentBuffer:        Round1(buffer),
		},
		Level: LevelFor(score),
	}
}

func timeBudgetScore(utilization float64) float64 {
	switch {
	case utilization <= 0.75:
		return 100
	case utilization <= 0.9:
		return 80
	case utilization <= 1.0:
		return 50
	default:
		return math.Max(0, 30-(utilization-1.0)*50)
	}
}

// historicalFitScore is clamped to 0-100; light days would otherwise score above 100.
func historicalFitScore(tasks []task.Task, predictor DurationPredictor) float64 {
	if predictor == nil || !predictor.Trained() {
		return neutralHistoricalFit
	}
	var predicted float64
	for _, t := range tasks {
		predicted += predictor.Predict(t).AIPrediction
	}
	return clamp(100-(predicted/AvailableMinutes-comfortableFit)*200, 0, 100)
}

func bufferScore(bufferPct float64) float64 {
	switch {
	case bufferPct >= 0.25:
		return 100
	case bufferPct >= 0.15:
		return 80
	case bufferPct >= 0.05:
		return 50
	default:
		return 20
	}
}
