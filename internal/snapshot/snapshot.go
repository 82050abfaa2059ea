// Package snapshot encodes the task collection to and from its persisted
// JSON form.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"mahami/internal/task"
)

// Key is the storage key the whole collection lives under.
const Key = "tasks"

var ErrMalformed = errors.New("malformed snapshot")

const schemaURL = "https://mahami.local/snapshot.schema.json"

const schemaDoc = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "priority", "completed", "createdAt"],
    "properties": {
      "id":          {"type": "string", "minLength": 1},
      "title":       {"type": "string"},
      "description": {"type": "string"},
      "dueDate":     {"type": "string"},
      "category":    {"type": "string"},
      "priority":    {"type": "string"},
      "completed":   {"type": "boolean"},
      "createdAt":   {"type": "string"},
      "reminder":    {"type": "string"}
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaDoc)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Encode serializes the collection. An empty collection encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a stored snapshot. Any failure wraps ErrMalformed.
func Decode(data []byte) ([]task.Task, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	s, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, describe(err))
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := checkUniqueIDs(tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func checkUniqueIDs(tasks []task.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrMalformed, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// describe flattens a validation error to its leaf messages.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collect(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collect(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collect(c, msgs)
	}
}
