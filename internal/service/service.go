// Package service implements the task business rules on top of a
// store.Repository. Each operation is a single synchronous read-modify-write
// against the repository; no state is cached between calls.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/nibzard/tasktracker/internal/logging"
	"github.com/nibzard/tasktracker/internal/store"
	"github.com/nibzard/tasktracker/internal/task"
)

var (
	// ErrEmptyDescription is returned when a description is blank after trimming.
	ErrEmptyDescription = errors.New("task description must not be empty")
	// ErrInvalidDescription is returned when a description is not valid UTF-8.
	ErrInvalidDescription = errors.New("task description must be valid UTF-8")
)

// Operations reported by NotFoundError.
const (
	OpUpdateDescription = "update"
	OpMarkInProgress    = "mark-in-progress"
	OpMarkDone          = "mark-done"
)

// NotFoundError reports that no task has the requested ID.
type NotFoundError struct {
	ID int
	Op string
}

func (e *NotFoundError) Error() string {
	if e.Op == OpUpdateDescription {
		return fmt.Sprintf("Task with id %d does not exist", e.ID)
	}
	return fmt.Sprintf("Task with id %d not found", e.ID)
}

// Service applies task operations to a repository.
type Service struct {
	repo   store.Repository
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Service backed by repo.
func New(repo store.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTask creates a TODO task with the next free ID.
func (s *Service) AddTask(description string) (task.Task, error) {
	if err := checkDescription(description); err != nil {
		return task.Task{}, err
	}
	id, err := s.repo.NextID()
	if err != nil {
		return task.Task{}, err
	}
	saved, err := s.repo.Save(task.New(id, description, s.now()))
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Info("task added", "id", saved.ID)
	return saved, nil
}

// UpdateDescription replaces the description of an existing task.
func (s *Service) UpdateDescription(id int, description string) (task.Task, error) {
	if err := checkDescription(description); err != nil {
		return task.Task{}, err
	}
	t, err := s.find(id, OpUpdateDescription)
	if err != nil {
		return task.Task{}, err
	}
	saved, err := s.repo.Save(t.WithDescription(description, s.now()))
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Info("task updated", "id", id)
	return saved, nil
}

// MarkInProgress moves a task to IN_PROGRESS.
func (s *Service) MarkInProgress(id int) (task.Task, error) {
	return s.transition(id, task.StatusInProgress, OpMarkInProgress)
}

// MarkDone moves a task to DONE.
func (s *Service) MarkDone(id int) (task.Task, error) {
	return s.transition(id, task.StatusDone, OpMarkDone)
}

// Delete removes a task. Deleting an unknown ID is not an error.
func (s *Service) Delete(id int) error {
	if err := s.repo.DeleteByID(id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "id", id)
	return nil
}

// GetAllTasks returns every task in ascending ID order.
func (s *Service) GetAllTasks() ([]task.Task, error) {
	return s.repo.FindAll()
}

// ListByStatus returns the tasks with the given status in ascending ID order.
func (s *Service) ListByStatus(status task.Status) ([]task.Task, error) {
	all, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

// Any status may move to any other; re-marking refreshes UpdatedAt.
func (s *Service) transition(id int, status task.Status, op string) (task.Task, error) {
	t, err := s.find(id, op)
	if err != nil {
		return task.Task{}, err
	}
	saved, err := s.repo.Save(t.WithStatus(status, s.now()))
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Info("task status changed", "id", id, "from", t.Status, "to", status)
	return saved, nil
}

// checkDescription rejects descriptions that would not survive a round trip
// through the tasks file unchanged.
func checkDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	if !utf8.ValidString(description) {
		return ErrInvalidDescription
	}
	return nil
}

func (s *Service) find(id int, op string) (task.Task, error) {
	t, ok, err := s.repo.FindByID(id)
	if err != nil {
		return task.Task{}, err
	}
	if !ok {
		return task.Task{}, &NotFoundError{ID: id, Op: op}
	}
	return t, nil
}
