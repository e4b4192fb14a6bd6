//nolint:testpackage // Tests require internal access for thorough testing
package task

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
)

func newTask(id string, at time.Time) Task {
	return Task{
		ID:               id,
		Type:             TypeCoding,
		EstimatedMinutes: 30,
		ComplexityScore:  3,
		ScheduledAt:      at,
	}
}

func TestStoreOperations(t *testing.T) {
	day := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	// Test add
	if err = store.Add(newTask("a", day)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err = store.Add(newTask("b", day.Add(2*time.Hour))); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err = store.Add(newTask("c", day.AddDate(0, 0, 1))); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := store.Get("a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.FocusLevel != DefaultFocusLevel {
		t.Errorf("FocusLevel = %d, want default %d", got.FocusLevel, DefaultFocusLevel)
	}

	// Test duplicate
	err = store.Add(newTask("a", day))
	var exists clarityerrors.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Errorf("Add duplicate = %v, want AlreadyExistsError", err)
	}

	// Test complete
	completed, err := store.Complete("b", Completion{ActualMinutes: 45, FocusLevel: 4, Interruptions: 2, ContextSwitches: 1})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !completed.Completed || completed.ActualMinutes == nil || *completed.ActualMinutes != 45 {
		t.Errorf("Complete did not record outcome: %+v", completed)
	}
	if completed.InterruptionCount != 2 || completed.ContextSwitchCount != 1 || completed.FocusLevel != 4 {
		t.Errorf("Complete did not record counts: %+v", completed)
	}

	_, err = store.Complete("b", Completion{ActualMinutes: 45, FocusLevel: 4})
	var already clarityerrors.AlreadyCompletedError
	if !errors.As(err, &already) {
		t.Errorf("Complete twice = %v, want AlreadyCompletedError", err)
	}

	_, err = store.Complete("missing", Completion{ActualMinutes: 10, FocusLevel: 3})
	var notFound clarityerrors.TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Complete missing = %v, want TaskNotFoundError", err)
	}

	// Test list filters keep insertion order
	if ids := idsOf(store.All()); !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Errorf("All() = %v, want [a b c]", ids)
	}
	if ids := idsOf(store.List(CompletedOnly())); !slices.Equal(ids, []string{"b"}) {
		t.Errorf("List(completed) = %v, want [b]", ids)
	}
	if ids := idsOf(store.List(IncompleteOnly())); !slices.Equal(ids, []string{"a", "c"}) {
		t.Errorf("List(incomplete) = %v, want [a c]", ids)
	}
	if ids := idsOf(store.List(ScheduledOn(day.Add(8 * time.Hour)))); !slices.Equal(ids, []string{"a", "b"}) {
		t.Errorf("List(today) = %v, want [a b]", ids)
	}
	if ids := idsOf(store.List(Filter{Incomplete: true, Day: day})); !slices.Equal(ids, []string{"a"}) {
		t.Errorf("List(incomplete today) = %v, want [a]", ids)
	}

	// Test clear
	store.Clear()
	if store.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", store.Len())
	}
	if store.Exists("a") {
		t.Error("task should not exist after Clear")
	}
}

func TestStoreRejectsInvalidTask(t *testing.T) {
	store, _ := NewStore()
	bad := newTask("bad", time.Now())
	bad.EstimatedMinutes = 0

	err := store.Add(bad)
	var invalid clarityerrors.InvalidTaskError
	if !errors.As(err, &invalid) {
		t.Errorf("Add = %v, want InvalidTaskError", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestCompleteRejectsNonFiniteActual(t *testing.T) {
	store, _ := NewStore(newTask("a", time.Now()))

	for _, actual := range []float64{math.NaN(), math.Inf(1)} {
		_, err := store.Complete("a", Completion{ActualMinutes: actual, FocusLevel: 3})
		var invalid clarityerrors.InvalidTaskError
		if !errors.As(err, &invalid) {
			t.Errorf("Complete(%v) = %v, want InvalidTaskError", actual, err)
		}
	}
	if got, _ := store.Get("a"); got.Completed {
		t.Error("task should stay pending after rejected completions")
	}
}

func TestReplace(t *testing.T) {
	store, _ := NewStore(newTask("a", time.Now()), newTask("b", time.Now()))

	if err := store.Replace([]Task{newTask("c", time.Now())}); err != nil {
		t.Fatalf("Replace = %v", err)
	}
	if store.Len() != 1 || !store.Exists("c") || store.Exists("a") {
		t.Errorf("after Replace: len=%d, c=%v, a=%v", store.Len(), store.Exists("c"), store.Exists("a"))
	}

	err := store.Replace([]Task{newTask("x", time.Now()), newTask("x", time.Now())})
	var exists clarityerrors.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Errorf("Replace with duplicate = %v, want AlreadyExistsError", err)
	}
	if store.Len() != 1 || !store.Exists("c") {
		t.Error("failed Replace must leave the store unchanged")
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	store, _ := NewStore(newTask("a", time.Now()))
	snapshot := store.All()
	snapshot[0].Type = TypeMeeting

	got, _ := store.Get("a")
	if got.Type != TypeCoding {
		t.Errorf("store mutated through snapshot: Type = %q", got.Type)
	}
}

func TestSortBySchedule(t *testing.T) {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	tasks := []Task{
		newTask("late", base.Add(3*time.Hour)),
		newTask("first", base),
		newTask("tie", base),
	}

	sorted := SortBySchedule(tasks)
	if ids := idsOf(sorted); !slices.Equal(ids, []string{"first", "tie", "late"}) {
		t.Errorf("SortBySchedule = %v, want [first tie late]", ids)
	}
	if tasks[0].ID != "late" {
		t.Error("SortBySchedule should not reorder its input")
	}
}

func idsOf(tasks []Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestParseFilter(t *testing.T) {
	now := time.Date(2024, 1, 15, 13, 0, 0, 0, time.Local)
	tasks := []Task{
		newTask("today", now.Add(-time.Hour)),
		newTask("tomorrow", now.AddDate(0, 0, 1)),
	}
	tasks[0].Completed = true

	tests := []struct {
		name string
		want []string
	}{
		{"", []string{"today", "tomorrow"}},
		{FilterCompleted, []string{"today"}},
		{FilterIncomplete, []string{"tomorrow"}},
		{FilterToday, []string{"today"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.name, now)
			if err != nil {
				t.Fatalf("ParseFilter failed: %v", err)
			}
			var got []string
			for _, tk := range tasks {
				if f.Matches(tk) {
					got = append(got, tk.ID)
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("matched %v, want %v", got, tt.want)
			}
		})
	}

	_, err := ParseFilter("overdue", now)
	var invalid clarityerrors.InvalidFilterError
	if !errors.As(err, &invalid) {
		t.Errorf("ParseFilter(overdue) = %v, want InvalidFilterError", err)
	}
}
