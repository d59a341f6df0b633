// Package task provides the task entity, its SQLite store and the built-in
// task tools exposed through the tool registry.
package task

import "time"

// Task is one user-owned to-do item.
type Task struct {
	ID          int64
	Owner       string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status filters task listings.
type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// NotFoundError reports a task that does not exist or belongs to another
// user. Both cases carry the same message so callers cannot probe for
// foreign task ids.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string { return "task not found" }
