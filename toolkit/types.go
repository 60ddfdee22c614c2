// Package toolkit provides the tool contract used to expose operations to an
// orchestrating agent.
// This file defines the result envelope, errors and schema generation
// helpers used across the toolkit.
package toolkit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
)

// --- Result Envelope ---

// Result is the outcome of a single tool invocation.
// Content holds the JSON text of the envelope. For success envelopes,
// Structured holds the same envelope decoded from Content, so both
// representations always carry identical values.
type Result struct {
	Content    string
	Structured map[string]any
	IsError    bool
}

// encodeFailureFallback is returned when a payload cannot be encoded.
const encodeFailureFallback = `{"success": false, "error": "failed to encode tool result"}`

// Success builds a success Result from a payload struct.
// The payload is expected to carry `success: true` itself.
func Success(payload any) Result {
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Result{Content: encodeFailureFallback, IsError: true}
	}
	var structured map[string]any
	if err := json.Unmarshal(text, &structured); err != nil {
		return Result{Content: encodeFailureFallback, IsError: true}
	}
	return Result{Content: string(text), Structured: structured}
}

// Failure builds an error Result from a failure envelope.
// Failure results carry no structured mirror.
func Failure(payload any) Result {
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Result{Content: encodeFailureFallback, IsError: true}
	}
	return Result{Content: string(text), IsError: true}
}

// --- Error Handling ---

// ErrDuplicateTool is returned when a tool name is registered twice.
var ErrDuplicateTool = errors.New("duplicate tool name")

// Error provides a standardized structure for dispatch-level errors,
// i.e. failures that happen before a tool is executed.
type Error struct {
	Code    string `json:"code"`    // A machine-readable error code (e.g., "invalid_arguments", "tool_not_found")
	Message string `json:"message"` // A human-readable description of the error
}

// Error implements the standard error interface.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new Error with the specified code and message.
//
// Common error codes:
//   - "invalid_arguments": when call arguments don't match the tool's input schema
//   - "tool_not_found": when a requested tool is not registered
func NewError(code, message string) error {
	return Error{
		Code:    code,
		Message: message,
	}
}

// --- Schema Generation Helpers ---

// GenerateSchema creates a JSON schema representation for the provided generic type T.
// It uses reflection through the github.com/invopop/jsonschema library.
//
// The schema generation respects jsonschema tags on struct fields, including:
// - required: Whether the field is required
// - description: Field descriptions for documentation
// - minimum / maxLength: bounds enforced by the Toolkit validator
//
// Example usage:
//
//	type SearchArgs struct {
//	    Query      string `json:"query" jsonschema:"required,description=Search query"`
//	    MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1"`
//	}
//	schema := GenerateSchema[SearchArgs]()
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  true, // Allow additional properties in the generated schema
		DoNotReference:             true, // Keep schema self-contained, no $refs
		RequiredFromJSONSchemaTags: true, // Respect `jsonschema:"required"` tags
	}
	var v T
	return reflector.Reflect(&v)
}

// DecodeArgs unmarshals validated tool arguments into T.
// Empty or null arguments decode to the zero value.
func DecodeArgs[T any](args json.RawMessage) (T, error) {
	var v T
	if isEmptyArgs(args) {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return v, fmt.Errorf("decode arguments: field %q cannot hold %s", typeErr.Field, typeErr.Value)
		}
		return v, fmt.Errorf("decode arguments: %w", err)
	}
	return v, nil
}
