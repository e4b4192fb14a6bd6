package output

import (
	"encoding/json"

	"github.com/abatilo/clarity/internal/analytics"
	"github.com/abatilo/clarity/internal/dashboard"
	"github.com/abatilo/clarity/internal/drift"
	"github.com/abatilo/clarity/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t task.Task) string {
	return marshalJSON(t)
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []task.Task) string {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return marshalJSON(tasks)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}

func (f *JSONFormatter) FormatLoad(r analytics.LoadResult) string {
	return marshalJSON(r)
}

func (f *JSONFormatter) FormatRealism(r analytics.RealismResult) string {
	return marshalJSON(r)
}

func (f *JSONFormatter) FormatFatigue(days []analytics.FatigueDay) string {
	if days == nil {
		days = []analytics.FatigueDay{}
	}
	return marshalJSON(days)
}

// optionalJSON wraps results that need history to exist.
type optionalJSON struct {
	Available bool `json:"available"`
	Result    any  `json:"result,omitempty"`
}

func optional(v any, ok bool) optionalJSON {
	if !ok {
		return optionalJSON{}
	}
	return optionalJSON{Available: true, Result: v}
}

func (f *JSONFormatter) FormatInterruptions(r analytics.InterruptionResult, ok bool) string {
	return marshalJSON(optional(r, ok))
}

func (f *JSONFormatter) FormatRhythm(r analytics.RhythmResult, ok bool) string {
	return marshalJSON(optional(r, ok))
}

func (f *JSONFormatter) FormatTrainResult(r drift.TrainResult) string {
	return marshalJSON(r)
}

func (f *JSONFormatter) FormatPrediction(p drift.Prediction) string {
	return marshalJSON(p)
}

func (f *JSONFormatter) FormatPlan(p dashboard.Plan) string {
	return marshalJSON(p)
}

func (f *JSONFormatter) FormatMood(m dashboard.MoodReport) string {
	return marshalJSON(m)
}

func (f *JSONFormatter) FormatSnapshot(s dashboard.Snapshot) string {
	return marshalJSON(s)
}
