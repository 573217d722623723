package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker/internal/logging"
	"github.com/nibzard/tasktracker/internal/task"
)

// DefaultFileName is the tasks file name used when none is configured.
const DefaultFileName = "tasks.json"

// FileRepository stores tasks in a single JSON file.
//
// The file is authoritative: each call reads it again, and each mutation
// rewrites it in full. A missing file is an empty collection.
type FileRepository struct {
	path   string
	atomic bool
	logger *log.Logger
}

// FileOption configures a FileRepository.
type FileOption func(*FileRepository)

// WithAtomicWrite controls whether writes go through a temp file and rename.
// Enabled by default.
func WithAtomicWrite(enabled bool) FileOption {
	return func(r *FileRepository) {
		r.atomic = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) FileOption {
	return func(r *FileRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewFileRepository returns a repository backed by the file at path.
func NewFileRepository(path string, opts ...FileOption) *FileRepository {
	r := &FileRepository{
		path:   path,
		atomic: true,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the backing file path.
func (r *FileRepository) Path() string {
	return r.path
}

// FindAll returns every task in ascending ID order.
func (r *FileRepository) FindAll() ([]task.Task, error) {
	return r.load()
}

// FindByID returns the task with id, reporting false if it is absent.
func (r *FileRepository) FindByID(id int) (task.Task, bool, error) {
	tasks, err := r.load()
	if err != nil {
		return task.Task{}, false, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, true, nil
		}
	}
	return task.Task{}, false, nil
}

// Save upserts t by ID and rewrites the file.
func (r *FileRepository) Save(t task.Task) (task.Task, error) {
	tasks, err := r.load()
	if err != nil {
		return task.Task{}, err
	}
	if err := r.saveAll(upsert(tasks, t)); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// DeleteByID removes the task with id and rewrites the file.
func (r *FileRepository) DeleteByID(id int) error {
	tasks, err := r.load()
	if err != nil {
		return err
	}
	return r.saveAll(without(tasks, id))
}

// NextID returns one past the highest stored ID, or 1 when empty.
func (r *FileRepository) NextID() (int, error) {
	tasks, err := r.load()
	if err != nil {
		return 0, err
	}
	return nextID(tasks), nil
}

func (r *FileRepository) load() ([]task.Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("tasks file not found, starting empty", "path", r.path)
			return []task.Task{}, nil
		}
		return nil, &IOError{Op: "read", Path: r.path, Err: err}
	}

	tasks, err := Decode(data)
	if err != nil {
		return nil, &IOError{Op: "decode", Path: r.path, Err: err}
	}
	r.logger.Debug("loaded tasks", "path", r.path, "count", len(tasks))
	return tasks, nil
}

func (r *FileRepository) saveAll(tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return &IOError{Op: "write", Path: r.path, Err: err}
	}

	if r.atomic {
		err = writeFileAtomic(r.path, data, 0o644)
	} else {
		err = writeFileDirect(r.path, data, 0o644)
	}
	if err != nil {
		return &IOError{Op: "write", Path: r.path, Err: err}
	}
	r.logger.Debug("saved tasks", "path", r.path, "count", len(tasks), "atomic", r.atomic)
	return nil
}

func writeFileDirect(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}
