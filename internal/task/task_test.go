//nolint:testpackage // Tests require internal access for thorough testing
package task

import (
	"errors"
	"math"
	"testing"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
)

func TestTypeIndex(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{TypeCoding, 0},
		{TypeMeeting, 1},
		{TypeAdmin, 2},
		{TypeDeepWork, 3},
		{TypeCommunication, 4},
		{"gardening", 5},
		{"", 5},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := TypeIndex(tt.label); got != tt.want {
				t.Errorf("TypeIndex(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestBucket(t *testing.T) {
	known := Task{Type: TypeMeeting}
	if got := known.Bucket(); got != TypeMeeting {
		t.Errorf("Bucket() = %q, want %q", got, TypeMeeting)
	}
	unknown := Task{Type: "1:1"}
	if got := unknown.Bucket(); got != TypeOther {
		t.Errorf("Bucket() = %q, want %q", got, TypeOther)
	}
}

func TestDayOfWeek(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"monday", time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), 0},
		{"wednesday", time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC), 2},
		{"sunday", time.Date(2024, 1, 21, 9, 0, 0, 0, time.UTC), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{ScheduledAt: tt.at}
			if got := task.DayOfWeek(); got != tt.want {
				t.Errorf("DayOfWeek() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	actual := 30.0
	zero := 0.0
	nan := math.NaN()
	inf := math.Inf(1)
	valid := Task{ID: "a1", Type: TypeCoding, EstimatedMinutes: 30, ComplexityScore: 3, FocusLevel: 3}

	tests := []struct {
		name   string
		mutate func(*Task)
		valid  bool
	}{
		{"valid", func(*Task) {}, true},
		{"valid completed", func(t *Task) { t.ActualMinutes = &actual; t.Completed = true }, true},
		{"unknown type tolerated", func(t *Task) { t.Type = "errand" }, true},
		{"missing id", func(t *Task) { t.ID = "" }, false},
		{"zero estimate", func(t *Task) { t.EstimatedMinutes = 0 }, false},
		{"negative estimate", func(t *Task) { t.EstimatedMinutes = -5 }, false},
		{"complexity too low", func(t *Task) { t.ComplexityScore = 0.5 }, false},
		{"complexity too high", func(t *Task) { t.ComplexityScore = 5.5 }, false},
		{"focus out of range", func(t *Task) { t.FocusLevel = 6 }, false},
		{"negative interruptions", func(t *Task) { t.InterruptionCount = -1 }, false},
		{"zero actual", func(t *Task) { t.ActualMinutes = &zero }, false},
		{"NaN estimate", func(t *Task) { t.EstimatedMinutes = math.NaN() }, false},
		{"infinite estimate", func(t *Task) { t.EstimatedMinutes = math.Inf(1) }, false},
		{"NaN complexity", func(t *Task) { t.ComplexityScore = math.NaN() }, false},
		{"NaN actual", func(t *Task) { t.ActualMinutes = &nan }, false},
		{"infinite actual", func(t *Task) { t.ActualMinutes = &inf }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid
			tt.mutate(&task)
			err := task.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid {
				var invalid clarityerrors.InvalidTaskError
				if !errors.As(err, &invalid) {
					t.Errorf("Validate() = %v, want InvalidTaskError", err)
				}
			}
		})
	}
}

func TestHasOutcome(t *testing.T) {
	actual := 45.0
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"completed with actual", Task{EstimatedMinutes: 30, ActualMinutes: &actual, Completed: true}, true},
		{"completed without actual", Task{EstimatedMinutes: 30, Completed: true}, false},
		{"actual but not completed", Task{EstimatedMinutes: 30, ActualMinutes: &actual}, false},
		{"zero estimate", Task{EstimatedMinutes: 0, ActualMinutes: &actual, Completed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.HasOutcome(); got != tt.want {
				t.Errorf("HasOutcome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id := GenerateID(func(id string) bool { return seen[id] })
		if seen[id] {
			t.Fatalf("GenerateID returned duplicate %q", id)
		}
		if len(id) < minIDLength {
			t.Errorf("GenerateID length = %d, want >= %d", len(id), minIDLength)
		}
		seen[id] = true
	}
}

func TestGenerateIDGrowsOnCollision(t *testing.T) {
	calls := 0
	id := GenerateID(func(string) bool {
		calls++
		return calls <= 2
	})
	if len(id) != minIDLength+2 {
		t.Errorf("GenerateID length = %d, want %d", len(id), minIDLength+2)
	}
}

func TestGenerateIDFallsBackToFullULID(t *testing.T) {
	id := GenerateID(func(string) bool { return true })
	if len(id) != 26 {
		t.Errorf("GenerateID fallback length = %d, want 26", len(id))
	}
}
