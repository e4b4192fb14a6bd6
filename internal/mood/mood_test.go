package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abatilo/clarity/internal/task"
)

func tk(id, typ string, complexity float64) task.Task {
	return task.Task{ID: id, Type: typ, EstimatedMinutes: 30, ComplexityScore: complexity, FocusLevel: 3}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestScoreTask(t *testing.T) {
	tests := []struct {
		name string
		task task.Task
		mood int
		want float64
	}{
		{"high mood deep work", tk("a", task.TypeDeepWork, 5), 5, 3},
		{"high mood simple admin", tk("a", task.TypeAdmin, 1), 4, -1},
		{"low mood admin", tk("a", task.TypeAdmin, 1), 2, 3},
		{"low mood hard coding", tk("a", task.TypeCoding, 5), 1, -1},
		{"neutral mood mid complexity", tk("a", task.TypeMeeting, 3), 3, 0},
		{"neutral mood extreme complexity", tk("a", task.TypeMeeting, 5), 3, -0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreTask(tt.task, tt.mood), 1e-9)
		})
	}
}

func TestSuggest(t *testing.T) {
	finished := tk("finished", task.TypeCoding, 5)
	finished.Completed = true
	tasks := []task.Task{
		tk("email", task.TypeCommunication, 1),
		tk("design", task.TypeDeepWork, 5),
		finished,
		tk("standup", task.TypeMeeting, 2),
		tk("refactor", task.TypeCoding, 3),
	}

	got := Suggest(tasks, 5)
	assert.Equal(t, []string{"design", "refactor"}, ids(got.RecommendedNow))
	assert.Equal(t, []string{"standup", "email"}, ids(got.BetterForLater))

	empty := Suggest(nil, 3)
	assert.NotNil(t, empty.RecommendedNow)
	assert.Empty(t, empty.RecommendedNow)
	assert.Empty(t, empty.BetterForLater)
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		text   string
		score  int
		energy string
	}{
		{"", 3, EnergyMedium},
		{"   ", 3, EnergyMedium},
		{"Pretty exhausted after the offsite", 2, EnergyLow},
		{"Feeling MOTIVATED today", 4, EnergyHigh},
		{"tired but focused", 2, EnergyLow},
		{"just a normal day", 3, EnergyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Interpret(tt.text)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.energy, got.Energy)
			assert.Equal(t, tt.score, got.EnergyLevel())
			assert.NotEmpty(t, got.Explanation)
		})
	}
	assert.Contains(t, Interpret("").Explanation, "No mood text provided")
}

func TestEnergyLevelClamps(t *testing.T) {
	assert.Equal(t, MaxScore, Reading{Score: 9}.EnergyLevel())
	assert.Equal(t, MinScore, Reading{Score: 0}.EnergyLevel())
}

func TestCoaching(t *testing.T) {
	assert.Contains(t, Coaching(1), "energy seems low")
	assert.Contains(t, Coaching(3), "moderate")
	assert.Contains(t, Coaching(5), "good energy")
}

func TestEnergyLabel(t *testing.T) {
	assert.Equal(t, EnergyLow, EnergyLabel(1))
	assert.Equal(t, EnergyLow, EnergyLabel(2))
	assert.Equal(t, EnergyMedium, EnergyLabel(3))
	assert.Equal(t, EnergyHigh, EnergyLabel(5))
}
