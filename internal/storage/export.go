package storage

import (
	"encoding/json"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/task"
)

type envelope struct {
	Tasks      []record `json:"tasks"`
	ExportDate string   `json:"export_date"`
}

// Export serializes tasks with the time of export.
func Export(tasks []task.Task, exportedAt time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(envelope{
		Tasks:      toRecords(tasks),
		ExportDate: exportedAt.Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Import parses an export. Records without an id are given a fresh one that
// does not collide with exists or with other imported ids.
func Import(data []byte, exists func(string) bool) ([]task.Task, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, clarityerrors.InvalidExportError{Reason: err.Error()}
	}
	if env.Tasks == nil {
		return nil, clarityerrors.InvalidExportError{Reason: "missing tasks list"}
	}

	tasks, err := fromRecords(env.Tasks)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		seen[t.ID] = t.ID != ""
	}
	taken := func(id string) bool { return seen[id] || exists(id) }
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = task.GenerateID(taken)
			seen[tasks[i].ID] = true
		}
		if err := tasks[i].Validate(); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}
