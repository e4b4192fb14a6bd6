// Package sample generates a plausible week of task history for demos.
package sample

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/abatilo/clarity/internal/task"
)

// DefaultCount is the number of tasks generated when none is given.
const DefaultCount = 10

const (
	daysBack  = 7
	firstHour = 8
	lastHour  = 17
)

//nolint:gochecknoglobals // estimate buckets
var estimates = []float64{15, 30, 45, 60, 90, 120}

// Generate creates n tasks scheduled on the hour over the past week, today included.
// Tasks scheduled before now are completed with a recorded outcome that overruns
// the estimate by up to 40%. IDs avoid those for which exists reports true and
// each other.
func Generate(n int, now time.Time, rng *rand.Rand, exists func(string) bool) []task.Task {
	taken := make(map[string]bool, n)
	isTaken := func(id string) bool { return taken[id] || exists(id) }

	out := make([]task.Task, 0, n)
	for range n {
		day := now.AddDate(0, 0, -rng.IntN(daysBack+1))
		hour := firstHour + rng.IntN(lastHour-firstHour+1)
		scheduled := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())

		t := task.Task{
			ID:               task.GenerateID(isTaken),
			Type:             task.KnownTypes[rng.IntN(len(task.KnownTypes))],
			EstimatedMinutes: estimates[rng.IntN(len(estimates))],
			ComplexityScore:  round1(1 + rng.Float64()*4),
			ScheduledAt:      scheduled,
			FocusLevel:       task.DefaultFocusLevel,
		}
		if scheduled.Before(now) {
			actual := round1(t.EstimatedMinutes * (0.9 + rng.Float64()*0.5))
			t.ActualMinutes = &actual
			t.FocusLevel = 2 + rng.IntN(4)
			t.InterruptionCount = rng.IntN(5)
			t.ContextSwitchCount = rng.IntN(3)
			t.Completed = true
		}
		taken[t.ID] = true
		out = append(out, t)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
