package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// --- Toolkit Struct and Methods ---

// Observer is notified after every executed tool call.
// It is not called for calls rejected before execution.
type Observer func(tool string, result Result, elapsed time.Duration)

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolkit) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithObserver registers an observer for executed calls.
func WithObserver(obs Observer) Option {
	return func(t *Toolkit) {
		if obs != nil {
			t.observers = append(t.observers, obs)
		}
	}
}

// Toolkit is the registry of tools and the in-process dispatch surface.
// Tools are kept in registration order. A Toolkit is populated once at
// startup; Handle is safe for concurrent use afterwards.
type Toolkit struct {
	name       string
	tools      map[string]Tool
	validators map[string]*validator
	order      []string
	logger     *slog.Logger
	observers  []Observer
}

// New creates an empty Toolkit with the provided name.
func New(name string, opts ...Option) *Toolkit {
	t := &Toolkit{
		name:       name,
		tools:      make(map[string]Tool),
		validators: make(map[string]*validator),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetToolkitName returns the configured name of the toolkit instance.
func (t *Toolkit) GetToolkitName() string {
	return t.name
}

// Add registers a tool under its declared name and compiles its input schema.
//
// Behavior:
//   - Nil tools are rejected
//   - A name that is already registered is rejected with ErrDuplicateTool
//   - An input schema that does not compile is rejected
func (t *Toolkit) Add(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("toolkit %s: nil tool", t.name)
	}
	name := tool.GetName()
	if _, exists := t.tools[name]; exists {
		return fmt.Errorf("toolkit %s: %w: %q", t.name, ErrDuplicateTool, name)
	}
	v, err := compileValidator(name, tool.GetInputSchema())
	if err != nil {
		return fmt.Errorf("toolkit %s: %w", t.name, err)
	}

	t.tools[name] = tool
	t.validators[name] = v
	t.order = append(t.order, name)
	t.logger.Debug("tool registered", "toolkit", t.name, "tool", name)
	return nil
}

// Tools returns the registered tools in registration order.
func (t *Toolkit) Tools() []Tool {
	out := make([]Tool, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.tools[name])
	}
	return out
}

// Get looks up a tool by name.
func (t *Toolkit) Get(name string) (Tool, bool) {
	tool, ok := t.tools[name]
	return tool, ok
}

// GetToolkitDescription generates a human-readable XML-like description of the
// registered tools and their input schemas, suitable for model prompts.
func (t *Toolkit) GetToolkitDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("In this environment, you have access to the following <toolkit name=\"%s\">:\n", t.name))
	for _, tool := range t.Tools() {
		schemaStr := "schema_error"
		schemaBytes, err := json.Marshal(tool.GetInputSchema())
		if err == nil {
			schemaStr = string(schemaBytes)
		} else {
			t.logger.Warn("marshal input schema", "tool", tool.GetName(), "error", err)
		}
		sb.WriteString(fmt.Sprintf("<tool name=\"%s\" description=\"%s\"><input_schema>%s</input_schema></tool>\n",
			tool.GetName(), tool.GetDescription(), schemaStr))
	}
	sb.WriteString("</toolkit>")
	return sb.String()
}

// --- Processing Methods ---

// Handle validates args against the named tool's input schema and executes it.
//
// Returns:
//   - Result: the tool's envelope, success or failure
//   - error: a dispatch Error when the tool is unknown ("tool_not_found") or the
//     arguments are malformed ("invalid_arguments"); the tool is not executed then
func (t *Toolkit) Handle(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	tool, ok := t.tools[name]
	if !ok {
		t.logger.Warn("requested tool not found", "toolkit", t.name, "tool", name)
		return Result{}, NewError("tool_not_found", fmt.Sprintf("Tool '%s' not registered", name))
	}
	if err := t.validators[name].Validate(args); err != nil {
		t.logger.Info("rejected tool arguments", "tool", name, "error", err)
		return Result{}, NewError("invalid_arguments", fmt.Sprintf("Invalid arguments for tool '%s': %v", name, err))
	}

	start := time.Now()
	result := tool.Execute(ctx, args)
	elapsed := time.Since(start)

	t.logger.Debug("tool executed", "tool", name, "is_error", result.IsError, "elapsed", elapsed)
	for _, obs := range t.observers {
		obs(name, result, elapsed)
	}
	return result, nil
}
