package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add config schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return compiled, nil
})

// Schema returns the JSON Schema configuration documents are validated against
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// ValidationError reports a configuration source that does not match the schema
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration in %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// normalize round-trips values through JSON so that values decoded from
// YAML or built in Go have the types the validator expects
func normalize(values map[string]any) ([]byte, any, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return data, doc, nil
}

// Validate checks values against the configuration schema. Empty values are valid.
func Validate(source string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	_, doc, err := normalize(values)
	if err != nil {
		return &ValidationError{Source: source, Err: err}
	}
	return validate(source, doc)
}

func validate(source string, doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return &ValidationError{Source: source, Err: err}
	}
	return nil
}
