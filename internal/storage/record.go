package storage

import (
	"fmt"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/task"
)

// record is the serialized form of a task shared by the YAML document and the
// JSON export. Field names follow the export format so files move freely
// between the two.
type record struct {
	ID                 string   `json:"task_id"            yaml:"task_id"`
	Title              string   `json:"title,omitempty"    yaml:"title,omitempty"`
	Type               string   `json:"task_type"          yaml:"task_type"`
	EstimatedMinutes   float64  `json:"estimated_minutes"  yaml:"estimated_minutes"`
	ComplexityScore    float64  `json:"complexity_score"   yaml:"complexity_score"`
	ScheduledAt        string   `json:"time_of_day"        yaml:"time_of_day"`
	ActualMinutes      *float64 `json:"actual_minutes"     yaml:"actual_minutes,omitempty"`
	InterruptionCount  int      `json:"interruption_count" yaml:"interruption_count"`
	ContextSwitchCount int      `json:"context_switches"   yaml:"context_switches"`
	FocusLevel         int      `json:"focus_level"        yaml:"focus_level"`
	Completed          bool     `json:"completed"          yaml:"completed"`
}

func toRecord(t task.Task) record {
	r := record{
		ID:                 t.ID,
		Title:              t.Title,
		Type:               t.Type,
		EstimatedMinutes:   t.EstimatedMinutes,
		ComplexityScore:    t.ComplexityScore,
		ScheduledAt:        t.ScheduledAt.Format(time.RFC3339Nano),
		InterruptionCount:  t.InterruptionCount,
		ContextSwitchCount: t.ContextSwitchCount,
		FocusLevel:         t.FocusLevel,
		Completed:          t.Completed,
	}
	if t.ActualMinutes != nil {
		actual := *t.ActualMinutes
		r.ActualMinutes = &actual
	}
	return r
}

func toRecords(tasks []task.Task) []record {
	out := make([]record, len(tasks))
	for i, t := range tasks {
		out[i] = toRecord(t)
	}
	return out
}

func (r record) task() (task.Task, error) {
	scheduled, err := parseTime(r.ScheduledAt)
	if err != nil {
		return task.Task{}, clarityerrors.InvalidTaskError{ID: r.ID, Reason: fmt.Sprintf("invalid time_of_day %q: %v", r.ScheduledAt, err)}
	}
	t := task.Task{
		ID:                 r.ID,
		Title:              r.Title,
		Type:               r.Type,
		EstimatedMinutes:   r.EstimatedMinutes,
		ComplexityScore:    r.ComplexityScore,
		ScheduledAt:        scheduled,
		InterruptionCount:  r.InterruptionCount,
		ContextSwitchCount: r.ContextSwitchCount,
		FocusLevel:         r.FocusLevel,
		Completed:          r.Completed,
	}
	if r.ActualMinutes != nil {
		actual := *r.ActualMinutes
		t.ActualMinutes = &actual
	}
	if t.FocusLevel == 0 {
		t.FocusLevel = task.DefaultFocusLevel
	}
	return t, nil
}

func fromRecords(records []record) ([]task.Task, error) {
	out := make([]task.Task, 0, len(records))
	for _, r := range records {
		t, err := r.task()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// parseTime accepts RFC3339 with or without fractional seconds, and naive
// ISO-8601 date-times which are read as local time.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}
