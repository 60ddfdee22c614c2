package toolkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validator checks raw call arguments against a tool's compiled input schema.
type validator struct {
	schema *jsonschema.Schema
}

// compileValidator compiles the declared input schema of a tool.
// A nil schema yields a validator that accepts any JSON object.
func compileValidator(name string, schema interface{}) (*validator, error) {
	if schema == nil {
		return &validator{}, nil
	}
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema for %s: %w", name, err)
	}

	url := name + ".input.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("add input schema for %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile input schema for %s: %w", name, err)
	}
	return &validator{schema: compiled}, nil
}

// Validate decodes args and validates them. Empty or null args are treated
// as an empty object.
func (v *validator) Validate(args json.RawMessage) error {
	if isEmptyArgs(args) {
		args = json.RawMessage(`{}`)
	}

	dec := json.NewDecoder(bytes.NewReader(args))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if _, ok := data.(map[string]any); !ok {
		return errors.New("arguments must be a JSON object")
	}
	if v.schema == nil {
		return nil
	}
	if err := v.schema.Validate(data); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

// validationMessage flattens a schema validation error into one line,
// preferring the leaf causes which name the offending field.
func validationMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectLeaves(ve, &msgs)
	if len(msgs) == 0 {
		return ve.Message
	}
	return strings.Join(msgs, "; ")
}

func collectLeaves(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, msgs)
	}
}

func isEmptyArgs(args json.RawMessage) bool {
	trimmed := bytes.TrimSpace(args)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
