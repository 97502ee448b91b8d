// Package history keeps a local SQLite record of executed tasks, fed
// by the engine's event bus.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/j-licht/crs-scripts/internal/event"
)

type Store struct {
	db *sql.DB
}

type Record struct {
	ID        int64
	JobLabel  string
	TaskType  string
	TaskIndex int
	TaskTotal int
	Command   string
	State     string
	Error     string
	CreatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS task_runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	job_label  TEXT NOT NULL,
	task_type  TEXT NOT NULL,
	task_index INTEGER NOT NULL,
	task_total INTEGER NOT NULL,
	command    TEXT NOT NULL,
	state      TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Open creates or opens the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) record(ctx context.Context, te event.TaskEvent, state string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_runs (job_label, task_type, task_index, task_total, command, state, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		te.JobLabel, te.TaskType, te.Index, te.Total, te.Command, state, te.Error)
	return err
}

// SetupEventHandlers subscribes the store to terminal task events so
// every executed task leaves one row.
func (s *Store) SetupEventHandlers(bus event.Bus) {
	bus.Subscribe(event.TaskCommitted, func(ctx context.Context, e event.Event) error {
		te, ok := e.Payload.(event.TaskEvent)
		if !ok {
			return nil
		}
		return s.record(ctx, te, "committed")
	})

	bus.Subscribe(event.TaskRolledBack, func(ctx context.Context, e event.Event) error {
		te, ok := e.Payload.(event.TaskEvent)
		if !ok {
			return nil
		}
		return s.record(ctx, te, "rolledback")
	})

	bus.Subscribe(event.JobAborted, func(ctx context.Context, e event.Event) error {
		je, ok := e.Payload.(event.JobEvent)
		if !ok {
			return nil
		}
		log.Warn().Str("job", je.JobLabel).Int("task", je.FailedTask).Msg("job aborted")
		return nil
	})
}

// ListRecent returns the newest limit rows, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_label, task_type, task_index, task_total, command, state, error, created_at
		FROM task_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.JobLabel, &r.TaskType, &r.TaskIndex, &r.TaskTotal,
			&r.Command, &r.State, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
