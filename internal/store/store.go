// Package store persists tasks.
//
// The store owns the durable representation of the task collection. Callers
// hold no cached copy between calls: every read goes back to the backing
// file, and every mutation rewrites it in full.
package store

import (
	"fmt"

	"github.com/nibzard/tasktracker/internal/task"
)

// Repository is the durable collection of tasks keyed by ID.
type Repository interface {
	// FindAll returns every task in ascending ID order.
	FindAll() ([]task.Task, error)
	// FindByID reports false when no task has id. Absence is not an error.
	FindByID(id int) (task.Task, bool, error)
	// Save replaces the task with the same ID, or appends it.
	Save(t task.Task) (task.Task, error)
	// DeleteByID removes the task with id. Removing an absent id is a no-op.
	DeleteByID(id int) error
	// NextID returns one past the highest stored ID, or 1 when empty.
	NextID() (int, error)
}

// IOError reports a failure to read, write, or decode the tasks file.
// It is not recoverable by callers.
type IOError struct {
	Op   string // "read", "write", or "decode"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s tasks file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// DecodeError reports structurally invalid persisted content.
// The file repository always returns it wrapped in an *IOError with Op "decode".
type DecodeError struct {
	Location string // JSON path within the document, e.g. "[2].status"
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s", e.Location, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// nextID computes the allocation rule shared by every repository.
func nextID(tasks []task.Task) int {
	highest := 0
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

// upsert replaces the task with t.ID in place or appends t.
func upsert(tasks []task.Task, t task.Task) []task.Task {
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
			return tasks
		}
	}
	return append(tasks, t)
}

// without returns tasks minus the one with id.
func without(tasks []task.Task, id int) []task.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
