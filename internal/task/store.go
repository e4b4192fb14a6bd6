package task

import (
	"slices"
	"sync"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
)

// Store is the ordered, in-memory task collection.
// It is mutated only through Add, Complete, Clear and Replace.
type Store struct {
	mu    sync.RWMutex
	tasks []Task
	index map[string]int
}

// NewStore creates a Store seeded with tasks in order.
func NewStore(tasks ...Task) (*Store, error) {
	s := &Store{index: make(map[string]int, len(tasks))}
	for _, t := range tasks {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a task after validating it.
func (s *Store) Add(t Task) error {
	if t.FocusLevel == 0 {
		t.FocusLevel = DefaultFocusLevel
	}
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[t.ID]; ok {
		return clarityerrors.AlreadyExistsError{ID: t.ID}
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)
	return nil
}

// Complete records the outcome of a task exactly once.
func (s *Store) Complete(id string, c Completion) (Task, error) {
	if err := c.Validate(id); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return Task{}, clarityerrors.TaskNotFoundError{ID: id}
	}
	t := &s.tasks[i]
	if t.Completed {
		return Task{}, clarityerrors.AlreadyCompletedError{ID: id}
	}
	actual := c.ActualMinutes
	t.ActualMinutes = &actual
	t.FocusLevel = c.FocusLevel
	t.InterruptionCount = c.Interruptions
	t.ContextSwitchCount = c.ContextSwitches
	t.Completed = true
	return *t, nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Task{}, clarityerrors.TaskNotFoundError{ID: id}
	}
	return s.tasks[i], nil
}

// Exists reports whether a task with the given ID is stored.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// List returns a snapshot of the tasks matching the filter, in insertion order.
func (s *Store) List(filter Filter) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// All returns a snapshot of every task.
func (s *Store) All() []Task {
	return s.List(Filter{})
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Clear removes every task.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
	s.index = make(map[string]int)
}

// Replace swaps the whole collection for tasks, in order. The store is left
// unchanged when any task is invalid or duplicated.
func (s *Store) Replace(tasks []Task) error {
	next, err := NewStore(tasks...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = next.tasks
	s.index = next.index
	return nil
}

// Filter controls which tasks List returns. The zero Filter matches all tasks.
type Filter struct {
	Completed  bool
	Incomplete bool
	// Day, when non-zero, restricts to tasks scheduled on the same local calendar date.
	Day time.Time
}

// CompletedOnly matches completed tasks.
func CompletedOnly() Filter { return Filter{Completed: true} }

// IncompleteOnly matches tasks that are not completed yet.
func IncompleteOnly() Filter { return Filter{Incomplete: true} }

// ScheduledOn matches tasks scheduled on the calendar date of day.
func ScheduledOn(day time.Time) Filter { return Filter{Day: day} }

// Filter names accepted by ParseFilter.
const (
	FilterCompleted  = "completed"
	FilterIncomplete = "incomplete"
	FilterToday      = "today"
)

// ParseFilter maps a filter name to a Filter. The empty name matches all tasks
// and "today" is relative to now.
func ParseFilter(name string, now time.Time) (Filter, error) {
	switch name {
	case "":
		return Filter{}, nil
	case FilterCompleted:
		return CompletedOnly(), nil
	case FilterIncomplete:
		return IncompleteOnly(), nil
	case FilterToday:
		return ScheduledOn(now), nil
	}
	return Filter{}, clarityerrors.InvalidFilterError{Value: name}
}

// Matches returns true if the task should be included.
func (f Filter) Matches(t Task) bool {
	if f.Completed != f.Incomplete {
		if f.Completed && !t.Completed {
			return false
		}
		if f.Incomplete && t.Completed {
			return false
		}
	}
	if !f.Day.IsZero() && !sameDate(t.ScheduledAt, f.Day) {
		return false
	}
	return true
}

func sameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SortBySchedule returns a copy of tasks ordered by ScheduledAt, stable for equal times.
func SortBySchedule(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return a.ScheduledAt.Compare(b.ScheduledAt)
	})
	return out
}
