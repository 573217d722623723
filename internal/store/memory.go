package store

import (
	"sync"

	"github.com/nibzard/tasktracker/internal/task"
)

// MemoryRepository is an in-memory Repository with the same contract as
// FileRepository.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[int]task.Task
}

// NewMemoryRepository returns a repository holding the given tasks.
func NewMemoryRepository(tasks ...task.Task) *MemoryRepository {
	r := &MemoryRepository{tasks: make(map[int]task.Task, len(tasks))}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *MemoryRepository) FindAll() ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sortByID(out)
	return out, nil
}

func (r *MemoryRepository) FindByID(id int) (task.Task, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	return t, ok, nil
}

func (r *MemoryRepository) Save(t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) DeleteByID(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepository) NextID() (int, error) {
	all, _ := r.FindAll()
	return nextID(all), nil
}
