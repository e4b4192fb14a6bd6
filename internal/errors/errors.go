//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// InsufficientDataError indicates there is not enough history for a computation.
// It is a "not ready yet" state, not a failure.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d completed tasks, need %d (%d more)", e.Have, e.Need, e.Needed())
}

// Needed returns how many more samples are required.
func (e InsufficientDataError) Needed() int {
	return max(0, e.Need-e.Have)
}

// InvalidTaskError indicates a task violates a precondition.
type InvalidTaskError struct {
	ID     string
	Reason string
}

func (e InvalidTaskError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid task: %s", e.Reason)
	}
	return fmt.Sprintf("invalid task %s: %s", e.ID, e.Reason)
}

// ServiceUnavailableError indicates an optional external service could not be used.
type ServiceUnavailableError struct {
	Service string
	Err     error
}

func (e ServiceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s unavailable", e.Service)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e ServiceUnavailableError) Unwrap() error {
	return e.Err
}

// TaskNotFoundError indicates the task ID doesn't match any task.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// AlreadyExistsError indicates an ID collision.
type AlreadyExistsError struct {
	ID string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("task already exists: %s", e.ID)
}

// AlreadyCompletedError indicates complete was called twice on a task.
type AlreadyCompletedError struct {
	ID string
}

func (e AlreadyCompletedError) Error() string {
	return fmt.Sprintf("task %s is already completed", e.ID)
}

// InvalidEnergyError indicates an energy or mood level outside 1-5.
type InvalidEnergyError struct {
	Value int
}

func (e InvalidEnergyError) Error() string {
	return fmt.Sprintf("invalid energy level: %d (valid: 1-5)", e.Value)
}

// InvalidFilterError indicates an unknown task list filter.
type InvalidFilterError struct {
	Value string
}

func (e InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: %s (valid: completed, incomplete, today)", e.Value)
}

// InvalidBackendError indicates an unknown storage backend in configuration.
type InvalidBackendError struct {
	Value string
}

func (e InvalidBackendError) Error() string {
	return fmt.Sprintf("invalid storage backend: %s (valid: yaml, sqlite)", e.Value)
}

// InvalidExportError indicates an import document that can't be read.
type InvalidExportError struct {
	Reason string
}

func (e InvalidExportError) Error() string {
	return fmt.Sprintf("invalid export: %s", e.Reason)
}
