package store

import (
	"errors"
	"io/fs"
	"os"
)

// ValidationResult contains the outcome of validating a tasks file.
type ValidationResult struct {
	Valid  bool
	Exists bool
	Tasks  int
	Errors []error
}

// Validate checks the tasks file at path against the bundled schema and
// reports every violation rather than stopping at the first. A missing file
// is valid and empty. Read failures are returned as *IOError.
func Validate(path string) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true, Errors: make([]error, 0)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	result.Exists = true

	violations, tasks := decodeAll(data)
	if len(violations) > 0 {
		result.Valid = false
		for _, v := range violations {
			result.Errors = append(result.Errors, v)
		}
		return result, nil
	}
	result.Tasks = len(tasks)
	return result, nil
}
