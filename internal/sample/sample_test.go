package sample

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/clarity/internal/task"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(1, 2))
	existing := map[string]bool{}

	tasks := Generate(200, now, rng, func(id string) bool { return existing[id] })
	require.Len(t, tasks, 200)

	seen := map[string]bool{}
	for _, tk := range tasks {
		require.NoError(t, tk.Validate(), tk.ID)
		assert.False(t, seen[tk.ID], "duplicate id %s", tk.ID)
		seen[tk.ID] = true

		assert.True(t, task.IsKnownType(tk.Type))
		assert.Contains(t, estimates, tk.EstimatedMinutes)
		assert.GreaterOrEqual(t, tk.ComplexityScore, 1.0)
		assert.LessOrEqual(t, tk.ComplexityScore, 5.0)
		assert.Zero(t, tk.ScheduledAt.Minute())
		assert.GreaterOrEqual(t, tk.Hour(), firstHour)
		assert.LessOrEqual(t, tk.Hour(), lastHour)
		assert.False(t, tk.ScheduledAt.Before(now.AddDate(0, 0, -daysBack).Truncate(24*time.Hour)))

		if tk.ScheduledAt.Before(now) {
			require.True(t, tk.Completed)
			actual, ok := tk.Actual()
			require.True(t, ok)
			assert.GreaterOrEqual(t, actual, tk.EstimatedMinutes*0.9-0.05)
			assert.LessOrEqual(t, actual, tk.EstimatedMinutes*1.4+0.05)
			assert.GreaterOrEqual(t, tk.FocusLevel, 2)
			assert.Less(t, tk.InterruptionCount, 5)
			assert.Less(t, tk.ContextSwitchCount, 3)
		} else {
			assert.False(t, tk.Completed)
			assert.Nil(t, tk.ActualMinutes)
		}
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	now := time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC)
	none := func(string) bool { return false }

	a := Generate(20, now, rand.New(rand.NewPCG(7, 7)), none)
	b := Generate(20, now, rand.New(rand.NewPCG(7, 7)), none)
	for i := range a {
		assert.Equal(t, a[i].Type, b[i].Type)
		assert.Equal(t, a[i].ScheduledAt, b[i].ScheduledAt)
		assert.InDelta(t, a[i].ComplexityScore, b[i].ComplexityScore, 1e-12)
	}
}

func TestGenerateAvoidsExistingIDs(t *testing.T) {
	now := time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC)
	first := Generate(5, now, rand.New(rand.NewPCG(3, 4)), func(string) bool { return false })

	taken := map[string]bool{}
	for _, tk := range first {
		taken[tk.ID] = true
	}
	for _, tk := range Generate(5, now, rand.New(rand.NewPCG(3, 4)), func(id string) bool { return taken[id] }) {
		assert.False(t, taken[tk.ID])
	}
}
