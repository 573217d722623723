package store

import (
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasktracker/internal/utils"
)

const schemaURL = "tasks.schema.json"

// bundledSchema describes the tasks file.
const bundledSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Task Tracker Tasks",
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["id", "description", "status", "createdAt", "updatedAt"],
    "properties": {
      "id": { "type": "integer", "minimum": 1 },
      "description": { "type": "string", "minLength": 1 },
      "status": { "type": "string", "enum": ["TODO", "IN_PROGRESS", "DONE"] },
      "createdAt": { "type": "string", "format": "date-time" },
      "updatedAt": { "type": "string", "format": "date-time" }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// BundledSchema returns the JSON Schema for the tasks file.
func BundledSchema() []byte {
	return []byte(bundledSchema)
}

func tasksSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(bundledSchema)); err != nil {
			schemaErr = fmt.Errorf("add tasks schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile tasks schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a decoded JSON document against the tasks schema
// and returns one DecodeError per violation.
func validateDocument(doc interface{}) ([]*DecodeError, error) {
	schema, err := tasksSchema()
	if err != nil {
		return nil, err
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []*DecodeError{{Err: err}}, nil
	}
	var out []*DecodeError
	collectSchemaErrors(&out, ve)
	return out, nil
}

func collectSchemaErrors(out *[]*DecodeError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, &DecodeError{
			Location: utils.JSONPointerToPath(err.InstanceLocation),
			Err:      fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}
