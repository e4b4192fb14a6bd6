package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/clarity/internal/blob"
	"github.com/abatilo/clarity/internal/task"
)

// DocumentName is the blob path of the task document.
const DocumentName = "tasks.yaml"

type document struct {
	Tasks []record `yaml:"tasks"`
}

// YAMLRepository keeps every task in one YAML document.
type YAMLRepository struct {
	store blob.Storage
}

// NewYAMLRepository stores the document in store.
func NewYAMLRepository(store blob.Storage) *YAMLRepository {
	return &YAMLRepository{store: store}
}

// Load returns no tasks when the document does not exist yet.
func (r *YAMLRepository) Load(ctx context.Context) ([]task.Task, error) {
	data, err := r.store.Read(ctx, DocumentName)
	if errors.Is(err, blob.ErrNotFound) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DocumentName, err)
	}
	return fromRecords(doc.Tasks)
}

func (r *YAMLRepository) Save(ctx context.Context, tasks []task.Task) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Tasks: toRecords(tasks)}); err != nil {
		return fmt.Errorf("encoding %s: %w", DocumentName, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding %s: %w", DocumentName, err)
	}
	return r.store.Write(ctx, DocumentName, buf.Bytes())
}

func (r *YAMLRepository) Close() error {
	return nil
}
