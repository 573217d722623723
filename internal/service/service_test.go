package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nibzard/tasktracker/internal/store"
	"github.com/nibzard/tasktracker/internal/task"
)

// stepClock returns a clock that advances by one second per call.
func stepClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, store.Repository) {
	t.Helper()
	repo := store.NewMemoryRepository()
	return New(repo, WithClock(stepClock(epoch))), repo
}

func mustAdd(t *testing.T, s *Service, desc string) task.Task {
	t.Helper()
	created, err := s.AddTask(desc)
	if err != nil {
		t.Fatalf("AddTask(%q) error = %v", desc, err)
	}
	return created
}

func TestAddTask(t *testing.T) {
	s, repo := newService(t)

	for i, desc := range []string{"Buy milk", "Write report", "Call Bob"} {
		created := mustAdd(t, s, desc)
		if created.ID != i+1 {
			t.Errorf("AddTask(%q).ID = %d, want %d", desc, created.ID, i+1)
		}
		if created.Status != task.StatusTodo {
			t.Errorf("Status = %s, want TODO", created.Status)
		}
		if !created.CreatedAt.Equal(created.UpdatedAt) {
			t.Errorf("CreatedAt %v != UpdatedAt %v", created.CreatedAt, created.UpdatedAt)
		}
		if created.Description != desc {
			t.Errorf("Description = %q, want %q", created.Description, desc)
		}

		stored, ok, err := repo.FindByID(created.ID)
		if err != nil || !ok {
			t.Fatalf("FindByID(%d) = %v, %v", created.ID, ok, err)
		}
		if stored != created {
			t.Errorf("stored %+v, returned %+v", stored, created)
		}
	}
}

func TestAddTaskRejectsBlank(t *testing.T) {
	s, repo := newService(t)

	for _, desc := range []string{"", "   ", "\t\n"} {
		if _, err := s.AddTask(desc); !errors.Is(err, ErrEmptyDescription) {
			t.Errorf("AddTask(%q) error = %v, want ErrEmptyDescription", desc, err)
		}
	}
	all, _ := repo.FindAll()
	if len(all) != 0 {
		t.Errorf("blank descriptions were stored: %v", all)
	}
}

func TestDescriptionMustBeValidUTF8(t *testing.T) {
	s, repo := newService(t)
	created := mustAdd(t, s, "Buy milk")

	if _, err := s.AddTask("x\xffy"); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("AddTask error = %v, want ErrInvalidDescription", err)
	}
	if _, err := s.UpdateDescription(created.ID, "oat \xc3"); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("UpdateDescription error = %v, want ErrInvalidDescription", err)
	}

	all, _ := repo.FindAll()
	if len(all) != 1 || all[0] != created {
		t.Errorf("tasks after rejected writes = %v, want only %v", all, created)
	}
}

func TestUpdateDescription(t *testing.T) {
	s, _ := newService(t)
	created := mustAdd(t, s, "Buy milk")

	updated, err := s.UpdateDescription(created.ID, "Buy oat milk")
	if err != nil {
		t.Fatalf("UpdateDescription() error = %v", err)
	}
	if updated.Description != "Buy oat milk" {
		t.Errorf("Description = %q", updated.Description)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt %v not after %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if updated.Status != task.StatusTodo {
		t.Errorf("Status = %s, want TODO", updated.Status)
	}

	if _, err := s.UpdateDescription(created.ID, " "); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("blank update error = %v, want ErrEmptyDescription", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	s, repo := newService(t)
	created := mustAdd(t, s, "Write report")

	inProgress, err := s.MarkInProgress(created.ID)
	if err != nil {
		t.Fatalf("MarkInProgress() error = %v", err)
	}
	if inProgress.Status != task.StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", inProgress.Status)
	}

	done, err := s.MarkDone(created.ID)
	if err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if done.Status != task.StatusDone {
		t.Errorf("Status = %s, want DONE", done.Status)
	}
	if !done.UpdatedAt.After(inProgress.UpdatedAt) {
		t.Errorf("UpdatedAt %v not after %v", done.UpdatedAt, inProgress.UpdatedAt)
	}

	again, err := s.MarkDone(created.ID)
	if err != nil {
		t.Fatalf("MarkDone() twice error = %v", err)
	}
	if !again.UpdatedAt.After(done.UpdatedAt) {
		t.Error("re-marking did not refresh UpdatedAt")
	}

	stored, _, _ := repo.FindByID(created.ID)
	if stored.Status != task.StatusDone {
		t.Errorf("persisted Status = %s, want DONE", stored.Status)
	}

	back, err := s.MarkInProgress(created.ID)
	if err != nil {
		t.Fatalf("MarkInProgress() after done error = %v", err)
	}
	if back.Status != task.StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", back.Status)
	}
}

func TestNotFound(t *testing.T) {
	s, _ := newService(t)
	mustAdd(t, s, "only")

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{
			name: "update",
			call: func() error { _, err := s.UpdateDescription(42, "x"); return err },
			msg:  "Task with id 42 does not exist",
		},
		{
			name: "mark-in-progress",
			call: func() error { _, err := s.MarkInProgress(42); return err },
			msg:  "Task with id 42 not found",
		},
		{
			name: "mark-done",
			call: func() error { _, err := s.MarkDone(42); return err },
			msg:  "Task with id 42 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("error = %v, want *NotFoundError", err)
			}
			if nf.ID != 42 || nf.Op != tt.name {
				t.Errorf("NotFoundError = %+v", nf)
			}
			if err.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	s, _ := newService(t)
	mustAdd(t, s, "a")
	mustAdd(t, s, "b")
	mustAdd(t, s, "c")

	if err := s.Delete(99); err != nil {
		t.Errorf("Delete(99) error = %v", err)
	}
	all, _ := s.GetAllTasks()
	if len(all) != 3 {
		t.Errorf("Delete of unknown id changed the collection: %v", all)
	}

	if err := s.Delete(3); err != nil {
		t.Fatalf("Delete(3) error = %v", err)
	}
	if created := mustAdd(t, s, "d"); created.ID != 3 {
		t.Errorf("ID after deleting the highest = %d, want 3", created.ID)
	}

	for _, id := range []int{1, 2, 3} {
		if err := s.Delete(id); err != nil {
			t.Fatal(err)
		}
	}
	if created := mustAdd(t, s, "e"); created.ID != 1 {
		t.Errorf("ID after emptying = %d, want 1", created.ID)
	}
}

func TestListByStatusPartitions(t *testing.T) {
	s, _ := newService(t)
	for _, d := range []string{"a", "b", "c", "d", "e"} {
		mustAdd(t, s, d)
	}
	if _, err := s.MarkInProgress(2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkDone(4); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkDone(5); err != nil {
		t.Fatal(err)
	}

	all, err := s.GetAllTasks()
	if err != nil {
		t.Fatal(err)
	}

	want := map[task.Status][]int{
		task.StatusTodo:       {1, 3},
		task.StatusInProgress: {2},
		task.StatusDone:       {4, 5},
	}
	total := 0
	for _, status := range task.Statuses() {
		got, err := s.ListByStatus(status)
		if err != nil {
			t.Fatal(err)
		}
		total += len(got)
		if len(got) != len(want[status]) {
			t.Errorf("ListByStatus(%s) = %v, want ids %v", status, got, want[status])
			continue
		}
		for i, tk := range got {
			if tk.ID != want[status][i] {
				t.Errorf("ListByStatus(%s)[%d].ID = %d, want %d", status, i, tk.ID, want[status][i])
			}
			if tk.Status != status {
				t.Errorf("ListByStatus(%s) returned %s task", status, tk.Status)
			}
		}
	}
	if total != len(all) {
		t.Errorf("status lists cover %d tasks, want %d", total, len(all))
	}
}

func TestServiceOverFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	first := New(store.NewFileRepository(path))
	created, err := first.AddTask("Buy milk")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.MarkDone(created.ID); err != nil {
		t.Fatal(err)
	}

	// A fresh service sees what the previous one persisted.
	second := New(store.NewFileRepository(path))
	done, err := second.ListByStatus(task.StatusDone)
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 || done[0].ID != created.ID {
		t.Errorf("ListByStatus(DONE) = %v, want task %d", done, created.ID)
	}
}

// faultyRepo fails every call with err.
type faultyRepo struct {
	err error
}

func (r faultyRepo) FindAll() ([]task.Task, error)         { return nil, r.err }
func (r faultyRepo) FindByID(int) (task.Task, bool, error) { return task.Task{}, false, r.err }
func (r faultyRepo) Save(t task.Task) (task.Task, error)   { return task.Task{}, r.err }
func (r faultyRepo) DeleteByID(int) error                  { return r.err }
func (r faultyRepo) NextID() (int, error)                  { return 0, r.err }

func TestStoreErrorsPropagate(t *testing.T) {
	ioErr := &store.IOError{Op: "read", Path: "tasks.json", Err: errors.New("disk on fire")}
	s := New(faultyRepo{err: ioErr})

	calls := map[string]func() error{
		"add":              func() error { _, err := s.AddTask("x"); return err },
		"update":           func() error { _, err := s.UpdateDescription(1, "x"); return err },
		"mark-in-progress": func() error { _, err := s.MarkInProgress(1); return err },
		"mark-done":        func() error { _, err := s.MarkDone(1); return err },
		"delete":           func() error { return s.Delete(1) },
		"all":              func() error { _, err := s.GetAllTasks(); return err },
		"by-status":        func() error { _, err := s.ListByStatus(task.StatusTodo); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			var target *store.IOError
			if err := call(); !errors.As(err, &target) {
				t.Errorf("error = %v, want *store.IOError", err)
			}
		})
	}
}
