package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/nibzard/tasktracker/internal/task"
)

// Encode renders tasks as a JSON array sorted by ID, with 2-space
// indentation and a trailing newline. A nil or empty collection encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	sorted := make([]task.Task, len(tasks))
	copy(sorted, tasks)
	sortByID(sorted)

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a tasks document. Empty or whitespace-only input decodes to
// an empty collection. The document must satisfy the bundled schema, may not
// contain duplicate IDs, and no task may be updated before it was created.
// The first violation is returned as a *DecodeError.
func Decode(data []byte) ([]task.Task, error) {
	errs, tasks := decodeAll(data)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return tasks, nil
}

// decodeAll decodes data and reports every violation it finds.
func decodeAll(data []byte) ([]*DecodeError, []task.Task) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, []task.Task{}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*DecodeError{{Err: fmt.Errorf("parse tasks file: %w", err)}}, nil
	}

	violations, err := validateDocument(doc)
	if err != nil {
		return []*DecodeError{{Err: err}}, nil
	}
	if len(violations) > 0 {
		return violations, nil
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return []*DecodeError{{Err: fmt.Errorf("parse tasks file: %w", err)}}, nil
	}

	seen := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			violations = append(violations, &DecodeError{
				Location: fmt.Sprintf("[%d].id", i),
				Err:      fmt.Errorf("duplicate id %d (first at [%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
		if t.UpdatedAt.Before(t.CreatedAt) {
			violations = append(violations, &DecodeError{
				Location: fmt.Sprintf("[%d].updatedAt", i),
				Err:      fmt.Errorf("updatedAt %s is before createdAt %s", t.UpdatedAt.Format(time.RFC3339Nano), t.CreatedAt.Format(time.RFC3339Nano)),
			})
		}
	}
	if len(violations) > 0 {
		return violations, nil
	}

	sortByID(tasks)
	return nil, tasks
}

func sortByID(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
}
