// Package task defines the task entity and its status lifecycle.
package task

import (
	"fmt"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses returns every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Token returns the command-line token for s ("todo", "in-progress", "done").
func (s Status) Token() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusInProgress:
		return "in-progress"
	case StatusDone:
		return "done"
	}
	return ""
}

// UnmarshalText rejects unknown status names.
func (s *Status) UnmarshalText(text []byte) error {
	v := Status(text)
	if !v.Valid() {
		return fmt.Errorf("invalid status %q, must be one of: TODO, IN_PROGRESS, DONE", string(text))
	}
	*s = v
	return nil
}

// InvalidStatusError reports a status token outside the command vocabulary.
type InvalidStatusError struct {
	Token string
}

func (e *InvalidStatusError) Error() string {
	return "Invalid status: " + e.Token
}

// ParseStatus maps a command-line token to a Status.
func ParseStatus(token string) (Status, error) {
	switch token {
	case "todo":
		return StatusTodo, nil
	case "in-progress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	default:
		return "", &InvalidStatusError{Token: token}
	}
}

// Task represents a single tracked unit of work.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// New returns a TODO task created at now.
func New(id int, description string, now time.Time) Task {
	return Task{
		ID:          id,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsZero returns true if the task has no ID.
func (t Task) IsZero() bool {
	return t.ID == 0
}

// WithDescription returns a copy of t with a new description.
func (t Task) WithDescription(description string, now time.Time) Task {
	t.Description = description
	t.touch(now)
	return t
}

// WithStatus returns a copy of t with a new status.
func (t Task) WithStatus(status Status, now time.Time) Task {
	t.Status = status
	t.touch(now)
	return t
}

// touch refreshes UpdatedAt, never moving it before CreatedAt.
func (t *Task) touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// String returns the one-line listing form "[id] (STATUS) description".
func (t Task) String() string {
	return fmt.Sprintf("[%d] (%s) %s", t.ID, t.Status, t.Description)
}
