package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/abatilo/clarity/internal/task"
)

// DatabaseName is the SQLite file created in the data directory.
const DatabaseName = "clarity.db"

// SQLiteRepository stores one row per task and keeps saved order in a
// position column.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens or creates dir/clarity.db with WAL journaling and migrates it.
func OpenSQLite(dir string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := filepath.Join(dir, DatabaseName) + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// migrate runs idempotent schema migrations.
func (r *SQLiteRepository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			position             INTEGER PRIMARY KEY,
			id                   TEXT NOT NULL UNIQUE,
			title                TEXT NOT NULL DEFAULT '',
			type                 TEXT NOT NULL,
			estimated_minutes    REAL NOT NULL,
			complexity_score     REAL NOT NULL,
			scheduled_at         TEXT NOT NULL,
			actual_minutes       REAL,
			interruption_count   INTEGER NOT NULL DEFAULT 0,
			context_switch_count INTEGER NOT NULL DEFAULT 0,
			focus_level          INTEGER NOT NULL DEFAULT 3,
			completed            BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_scheduled ON tasks(scheduled_at)`,
	}
	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("exec %q: %w", m[:min(len(m), 40)], err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, type, estimated_minutes, complexity_score,
		scheduled_at, actual_minutes, interruption_count, context_switch_count, focus_level, completed
		FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var (
			t         task.Task
			scheduled string
			actual    sql.NullFloat64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Type, &t.EstimatedMinutes, &t.ComplexityScore,
			&scheduled, &actual, &t.InterruptionCount, &t.ContextSwitchCount, &t.FocusLevel, &t.Completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if t.ScheduledAt, err = parseTime(scheduled); err != nil {
			return nil, fmt.Errorf("task %s: invalid scheduled_at %q: %w", t.ID, scheduled, err)
		}
		if actual.Valid {
			v := actual.Float64
			t.ActualMinutes = &v
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Save replaces all rows in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, tasks []task.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (position, id, title, type, estimated_minutes,
		complexity_score, scheduled_at, actual_minutes, interruption_count, context_switch_count, focus_level, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		var actual sql.NullFloat64
		if t.ActualMinutes != nil {
			actual = sql.NullFloat64{Float64: *t.ActualMinutes, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Title, t.Type, t.EstimatedMinutes, t.ComplexityScore,
			t.ScheduledAt.Format(time.RFC3339Nano), actual, t.InterruptionCount, t.ContextSwitchCount,
			t.FocusLevel, t.Completed); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
