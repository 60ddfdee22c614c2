package toolkit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// --- Test Helpers ---

type echoArgs struct {
	Val   string `json:"val" jsonschema:"required,description=Value to echo"`
	Count int    `json:"count,omitempty" jsonschema:"minimum=1,description=Optional positive count"`
}

type echoResp struct {
	Success bool   `json:"success"`
	Res     string `json:"res"`
	Count   int    `json:"count"`
}

type echoTool struct {
	name     string
	calls    int
	fail     bool
	lastArgs echoArgs
}

func (e *echoTool) GetName() string              { return e.name }
func (e *echoTool) GetDescription() string       { return "desc_" + e.name }
func (e *echoTool) GetInputSchema() interface{}  { return toolkit.GenerateSchema[echoArgs]() }
func (e *echoTool) GetOutputSchema() interface{} { return toolkit.GenerateSchema[echoResp]() }
func (e *echoTool) Execute(ctx context.Context, args json.RawMessage) toolkit.Result {
	e.calls++
	in, err := toolkit.DecodeArgs[echoArgs](args)
	if err != nil {
		return toolkit.Failure(map[string]any{"success": false, "error": err.Error()})
	}
	e.lastArgs = in
	if e.fail {
		return toolkit.Failure(map[string]any{"success": false, "error": "boom"})
	}
	return toolkit.Success(echoResp{Success: true, Res: e.name + ":" + in.Val, Count: in.Count})
}

func newEcho(name string) *echoTool { return &echoTool{name: name} }

// --- Test Add ---

func TestAdd(t *testing.T) {
	tests := []struct {
		name        string
		tools       []toolkit.Tool
		expectNames []string
		expectErr   error
	}{
		{name: "no tools", tools: nil, expectNames: []string{}},
		{name: "one tool", tools: []toolkit.Tool{newEcho("a")}, expectNames: []string{"a"}},
		{name: "keeps registration order", tools: []toolkit.Tool{newEcho("b"), newEcho("a"), newEcho("c")}, expectNames: []string{"b", "a", "c"}},
		{name: "duplicate rejected", tools: []toolkit.Tool{newEcho("a"), newEcho("a")}, expectNames: []string{"a"}, expectErr: toolkit.ErrDuplicateTool},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tk := toolkit.New("tk")
			var lastErr error
			for _, tool := range tc.tools {
				if err := tk.Add(tool); err != nil {
					lastErr = err
				}
			}
			if tc.expectErr != nil {
				require.Error(t, lastErr)
				assert.True(t, errors.Is(lastErr, tc.expectErr))
			} else {
				require.NoError(t, lastErr)
			}

			names := []string{}
			for _, tool := range tk.Tools() {
				names = append(names, tool.GetName())
			}
			assert.Equal(t, tc.expectNames, names)
		})
	}
}

func TestAdd_NilTool(t *testing.T) {
	tk := toolkit.New("tk")
	require.Error(t, tk.Add(nil))
	assert.Empty(t, tk.Tools())
}

// --- Test Handle ---

func TestHandle_Success(t *testing.T) {
	tool := newEcho("echo")
	tk := toolkit.New("tk")
	require.NoError(t, tk.Add(tool))

	res, err := tk.Handle(context.Background(), "echo", json.RawMessage(`{"val":"hi","count":3}`))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, 1, tool.calls)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &parsed))
	assert.Equal(t, res.Structured, parsed, "text and structured forms must match")
	assert.Equal(t, "echo:hi", parsed["res"])
	assert.Equal(t, true, parsed["success"])
}

func TestHandle_ToolNotFound(t *testing.T) {
	tk := toolkit.New("tk")

	_, err := tk.Handle(context.Background(), "missing", json.RawMessage(`{}`))
	require.Error(t, err)
	var tkErr toolkit.Error
	require.True(t, errors.As(err, &tkErr))
	assert.Equal(t, "tool_not_found", tkErr.Code)
}

func TestHandle_InvalidArgumentsNeverExecute(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "malformed json", args: `{"val":`},
		{name: "missing required", args: `{}`},
		{name: "wrong type", args: `{"val": 123}`},
		{name: "below minimum", args: `{"val":"x","count":0}`},
		{name: "negative", args: `{"val":"x","count":-4}`},
		{name: "not an object", args: `["val"]`},
		{name: "null args", args: `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tool := newEcho("echo")
			tk := toolkit.New("tk")
			require.NoError(t, tk.Add(tool))

			_, err := tk.Handle(context.Background(), "echo", json.RawMessage(tc.args))
			require.Error(t, err)
			var tkErr toolkit.Error
			require.True(t, errors.As(err, &tkErr))
			assert.Equal(t, "invalid_arguments", tkErr.Code)
			assert.Contains(t, tkErr.Message, "echo")
			assert.Zero(t, tool.calls, "tool must not run when validation fails")
		})
	}
}

func TestHandle_ToolFailureIsResult(t *testing.T) {
	tool := newEcho("echo")
	tool.fail = true
	tk := toolkit.New("tk")
	require.NoError(t, tk.Add(tool))

	res, err := tk.Handle(context.Background(), "echo", json.RawMessage(`{"val":"x"}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Nil(t, res.Structured)
	assert.Contains(t, res.Content, "boom")
}

func TestHandle_Observer(t *testing.T) {
	var observed []string
	tk := toolkit.New("tk", toolkit.WithObserver(func(tool string, result toolkit.Result, elapsed time.Duration) {
		observed = append(observed, tool)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	}))
	require.NoError(t, tk.Add(newEcho("echo")))

	_, err := tk.Handle(context.Background(), "echo", json.RawMessage(`{"val":"x"}`))
	require.NoError(t, err)
	_, err = tk.Handle(context.Background(), "echo", json.RawMessage(`{}`))
	require.Error(t, err)

	assert.Equal(t, []string{"echo"}, observed, "rejected calls are not observed")
}

func TestHandle_LogsRejection(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tk := toolkit.New("tk", toolkit.WithLogger(logger))
	require.NoError(t, tk.Add(newEcho("echo")))

	_, _ = tk.Handle(context.Background(), "echo", json.RawMessage(`{}`))
	assert.Contains(t, buf.String(), "rejected tool arguments")
}

// --- Test Description and Schemas ---

func TestGetToolkitDescription(t *testing.T) {
	tk := toolkit.New("tk_full")
	require.NoError(t, tk.Add(newEcho("c1")))
	require.NoError(t, tk.Add(newEcho("c2")))

	desc := tk.GetToolkitDescription()
	for _, expected := range []string{
		`<toolkit name="tk_full">`,
		`<tool name="c1" description="desc_c1">`,
		`<tool name="c2" description="desc_c2">`,
		`"properties":{`,
		`</toolkit>`,
	} {
		assert.Contains(t, desc, expected)
	}
	assert.Equal(t, 2, strings.Count(desc, "<tool name="))
}

func TestGenerateSchema(t *testing.T) {
	schema := toolkit.GenerateSchema[echoArgs]()
	schemaPtr, ok := schema.(*jsonschema.Schema)
	require.True(t, ok, "schema should be a *jsonschema.Schema")
	assert.Equal(t, "object", schemaPtr.Type)
	assert.Equal(t, []string{"val"}, schemaPtr.Required)

	_, ok = schemaPtr.Properties.Get("count")
	assert.True(t, ok)
}

func TestSuccess_RoundTrip(t *testing.T) {
	res := toolkit.Success(echoResp{Success: true, Res: "r", Count: 2})
	assert.False(t, res.IsError)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &parsed))
	assert.Equal(t, parsed, res.Structured)
}

func TestDecodeArgs_Empty(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		v, err := toolkit.DecodeArgs[echoArgs](json.RawMessage(raw))
		require.NoError(t, err)
		assert.Equal(t, echoArgs{}, v)
	}
}

func TestDecodeArgs_TypeErrorOmitsGoTypes(t *testing.T) {
	_, err := toolkit.DecodeArgs[echoArgs](json.RawMessage(`{"val":"x","count":1e20}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"count"`)
	assert.NotContains(t, err.Error(), "echoArgs")
	assert.NotContains(t, err.Error(), "Go struct")
}
