// Package toolkit provides the tool contract used to expose operations to an
// orchestrating agent. It handles schema generation, argument validation,
// uniform result envelopes and name-keyed dispatch.
//
// Core concepts:
//   - Tool: an individually invokable operation with typed input and output schemas
//   - Result: the uniform envelope every tool returns, as text plus a structured mirror
//   - Toolkit: the registry that validates arguments and dispatches calls by tool name
//
// This file defines the core interfaces that all tool implementations must satisfy.
package toolkit

import (
	"context"
	"encoding/json"
)

// Tool represents an individual operation that can be executed by an agent.
// Each Tool defines its own name, description, input and output schemas,
// and execution logic. Implementations are constructed once with their
// dependencies injected and are immutable afterwards.
type Tool interface {
	// GetName returns the unique name of the tool.
	// This name is the dispatch key and must be unique within a Toolkit.
	GetName() string

	// GetDescription provides a human-readable description of what the tool does.
	GetDescription() string

	// GetInputSchema returns the JSON schema definition for the arguments
	// this tool expects. The Toolkit validates every call against it
	// before Execute is entered.
	GetInputSchema() interface{}

	// GetOutputSchema returns the JSON schema of the success payload,
	// or nil when the tool does not declare one.
	GetOutputSchema() interface{}

	// Execute runs the tool with already validated arguments.
	// It never returns a Go error: every failure is reported through a
	// failure Result so a single bad call cannot disturb later ones.
	Execute(ctx context.Context, args json.RawMessage) Result
}

// Surface is anything tools can be attached to under their declared name.
// Toolkit is the in-process implementation.
type Surface interface {
	Add(tool Tool) error
}
