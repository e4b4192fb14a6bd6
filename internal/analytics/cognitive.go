package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/abatilo/clarity/internal/task"
)

// Component names reported by CognitiveLoad.
const (
	ComponentTaskDensity      = "task_density"
	ComponentComplexity       = "complexity"
	ComponentContextSwitching = "context_switching"
)

const (
	nominalHours       = 8
	densityPerHourTask = 20
	complexityScale    = 20
	switchPenalty      = 12

	densityWeight    = 0.40
	complexityWeight = 0.35
	switchingWeight  = 0.25
)

// LoadResult is the cognitive load of one day's plan.
type LoadResult struct {
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
	Level      Level              `json:"level"`
}

// CognitiveLoad scores the mental load of a day's tasks.
// Adjacency for context switches follows the order of tasks, so callers
// should pass them sorted by scheduled time.
func CognitiveLoad(tasks []task.Task) LoadResult {
	if len(tasks) == 0 {
		return LoadResult{Score: 0, Components: map[string]float64{}, Level: LevelLow}
	}

	density := math.Min(100, float64(len(tasks))/nominalHours*densityPerHourTask)

	weighted := make([]float64, len(tasks))
	minutes := make([]float64, len(tasks))
	switches := 0
	for i, t := range tasks {
		weighted[i] = t.ComplexityScore * t.EstimatedMinutes
		minutes[i] = t.EstimatedMinutes
		if i > 0 && tasks[i-1].Type != t.Type {
			switches++
		}
	}
	totalMinutes := floats.Sum(minutes)
	if totalMinutes == 0 {
		totalMinutes = 1
	}
	complexity := floats.Sum(weighted) / totalMinutes * complexityScale
	switching := math.Min(100, float64(switchPenalty*switches))

	score := densityWeight*density + complexityWeight*complexity + switchingWeight*switching

	return LoadResult{
		Score: Round1(score),
		Components: map[string]float64{
			ComponentTaskDensity:      Round1(density),
			ComponentComplexity:       Round1(complexity),
			ComponentContextSwitching: Round1(switching),
		},
		Level: LevelFor(score),
	}
}
