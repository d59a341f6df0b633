package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists tasks in SQLite. The conversation and message tables are
// created alongside for the chat frontend; the current resolver keeps no
// dialogue state, so nothing here reads or writes them yet.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS task (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed   INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_user ON task(user_id);

CREATE TABLE IF NOT EXISTS conversation (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS message (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id         TEXT NOT NULL,
	conversation_id INTEGER NOT NULL REFERENCES conversation(id),
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      INTEGER NOT NULL
);
`

// Open opens (or creates) the SQLite database at path and applies the
// schema. Timestamps are stored as Unix seconds.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open task db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Create inserts a task and fills in the id the store assigned.
func (s *Store) Create(ctx context.Context, t *Task) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO task (user_id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Owner, t.Title, t.Description, t.Completed, t.CreatedAt.Unix(), t.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task id: %w", err)
	}
	t.ID = id
	return id, nil
}

// Get returns the task with the given id regardless of owner. Ownership
// checks belong to the tool layer so every tool rejects foreign ids the
// same way.
func (s *Store) Get(ctx context.Context, id int64) (Task, error) {
	var (
		t                Task
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM task WHERE id = ?`, id).
		Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Completed, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	t.CreatedAt = time.Unix(created, 0).UTC()
	t.UpdatedAt = time.Unix(updated, 0).UTC()
	return t, nil
}

// List returns every task owned by owner, in ascending id order.
func (s *Store) List(ctx context.Context, owner string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM task WHERE user_id = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var (
			t                Task
			created, updated int64
		)
		if err := rows.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Completed, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.CreatedAt = time.Unix(created, 0).UTC()
		t.UpdatedAt = time.Unix(updated, 0).UTC()
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update overwrites the mutable fields of the task identified by t.ID.
func (s *Store) Update(ctx context.Context, t Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE task SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, t.Completed, t.UpdatedAt.Unix(), t.ID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{ID: t.ID}
	}
	return nil
}

// Delete removes the task with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM task WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// Tables lists the user tables present in the database, sorted by name.
// The migrate subcommand uses it to report what the schema created.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
