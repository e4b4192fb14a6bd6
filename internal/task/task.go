package task

import (
	"math"
	"slices"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
)

// Known task types, in encoding order.
const (
	TypeCoding        = "coding"
	TypeMeeting       = "meeting"
	TypeAdmin         = "admin"
	TypeDeepWork      = "deep_work"
	TypeCommunication = "communication"

	// TypeOther is the bucket for labels outside KnownTypes.
	TypeOther = "other"
)

// KnownTypes is the fixed, ordered type vocabulary.
//
//nolint:gochecknoglobals // fixed vocabulary shared by encoders
var KnownTypes = []string{TypeCoding, TypeMeeting, TypeAdmin, TypeDeepWork, TypeCommunication}

// DefaultFocusLevel is the focus level assumed until a task is completed.
const DefaultFocusLevel = 3

// Task represents a scheduled or completed work item.
type Task struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title,omitempty"`
	Type               string    `json:"type"`
	EstimatedMinutes   float64   `json:"estimated_minutes"`
	ComplexityScore    float64   `json:"complexity_score"`
	ScheduledAt        time.Time `json:"scheduled_at"`
	ActualMinutes      *float64  `json:"actual_minutes,omitempty"`
	InterruptionCount  int       `json:"interruption_count"`
	ContextSwitchCount int       `json:"context_switch_count"`
	FocusLevel         int       `json:"focus_level"`
	Completed          bool      `json:"completed"`
}

// Completion carries the values recorded when a task is marked complete.
type Completion struct {
	ActualMinutes   float64
	FocusLevel      int
	Interruptions   int
	ContextSwitches int
}

// IsKnownType reports whether the label is part of the vocabulary.
func IsKnownType(label string) bool {
	return slices.Contains(KnownTypes, label)
}

// TypeIndex returns the vocabulary index of a label; unknown labels get len(KnownTypes).
func TypeIndex(label string) int {
	if i := slices.Index(KnownTypes, label); i >= 0 {
		return i
	}
	return len(KnownTypes)
}

// Bucket returns the type label, or TypeOther for unrecognized labels.
func (t Task) Bucket() string {
	if IsKnownType(t.Type) {
		return t.Type
	}
	return TypeOther
}

// DayOfWeek returns the weekday index of ScheduledAt with Monday = 0.
func (t Task) DayOfWeek() int {
	return (int(t.ScheduledAt.Weekday()) + 6) % 7 //nolint:mnd // shift Sunday-first to Monday-first
}

// Hour returns the hour of day of ScheduledAt.
func (t Task) Hour() int {
	return t.ScheduledAt.Hour()
}

// Date returns the calendar date of ScheduledAt as YYYY-MM-DD.
func (t Task) Date() string {
	return t.ScheduledAt.Format(time.DateOnly)
}

// Actual returns ActualMinutes and whether it is set.
func (t Task) Actual() (float64, bool) {
	if t.ActualMinutes == nil {
		return 0, false
	}
	return *t.ActualMinutes, true
}

// HasOutcome reports whether completion fields can be trusted for ratio computations.
func (t Task) HasOutcome() bool {
	return t.Completed && t.ActualMinutes != nil && t.EstimatedMinutes > 0
}

// Validate checks the task's field ranges.
func (t Task) Validate() error {
	switch {
	case t.ID == "":
		return clarityerrors.InvalidTaskError{Reason: "id is required"}
	case !positive(t.EstimatedMinutes):
		return clarityerrors.InvalidTaskError{ID: t.ID, Reason: "estimated_minutes must be positive"}
	case !(t.ComplexityScore >= 1 && t.ComplexityScore <= 5):
		return clarityerrors.InvalidTaskError{ID: t.ID, Reason: "complexity_score must be within 1-5"}
	case t.FocusLevel < 1 || t.FocusLevel > 5:
		return clarityerrors.InvalidTaskError{ID: t.ID, Reason: "focus_level must be within 1-5"}
	case t.InterruptionCount < 0 || t.ContextSwitchCount < 0:
		return clarityerrors.InvalidTaskError{ID: t.ID, Reason: "counts must not be negative"}
	case t.ActualMinutes != nil && !positive(*t.ActualMinutes):
		return clarityerrors.InvalidTaskError{ID: t.ID, Reason: "actual_minutes must be positive"}
	}
	return nil
}

// Validate checks a completion before it is applied.
func (c Completion) Validate(id string) error {
	switch {
	case !positive(c.ActualMinutes):
		return clarityerrors.InvalidTaskError{ID: id, Reason: "actual_minutes must be positive"}
	case c.FocusLevel < 1 || c.FocusLevel > 5:
		return clarityerrors.InvalidTaskError{ID: id, Reason: "focus_level must be within 1-5"}
	case c.Interruptions < 0 || c.ContextSwitches < 0:
		return clarityerrors.InvalidTaskError{ID: id, Reason: "counts must not be negative"}
	}
	return nil
}

// positive reports whether v is a finite number above zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
