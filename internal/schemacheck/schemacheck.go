// Package schemacheck validates JSON documents against named JSON schemas.
// Compiled schemas are cached by name for the life of the process.
package schemacheck

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema definition.
type Schema struct {
	// Name identifies the schema. Kebab-case, e.g. "study-items".
	// Two schemas with the same name share a cache entry.
	Name string

	// Description is sent to LLMs to guide generation.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// ValidationError reports a document that is malformed or does not conform
// to its schema.
type ValidationError struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Schema, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var cache sync.Map // map[string]*jsonschema.Schema

// Validate checks raw against schema. A nil schema accepts anything.
func Validate(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ValidationError{Schema: schema.Name, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return ValidateValue(schema, parsed, raw)
}

// ValidateValue checks an already decoded JSON value. raw is only attached
// to the error.
func ValidateValue(schema *Schema, v any, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	compiled, err := compile(schema)
	if err != nil {
		return &ValidationError{Schema: schema.Name, Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}
	if err := compiled.Validate(v); err != nil {
		return &ValidationError{Schema: schema.Name, Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := cache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go maps with typed values.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	actual, _ := cache.LoadOrStore(schema.Name, compiled)
	return actual.(*jsonschema.Schema), nil
}
