package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	tgsparser "github.com/tgs-lang/parser-sdk-go"
)

// fakeSession returns a canned result for any submission.
type fakeSession struct {
	result   *tgsparser.Result
	err      error
	lastPath string
}

func (f *fakeSession) Initialize(_ context.Context) error { return nil }

func (f *fakeSession) Submit(_ context.Context, filePath, _ string) (*tgsparser.Result, error) {
	f.lastPath = filePath

	return f.result, f.err
}

func (f *fakeSession) SubmitFile(_ context.Context, filePath string) (*tgsparser.Result, error) {
	f.lastPath = filePath

	return f.result, f.err
}

func (f *fakeSession) Ready() bool    { return true }
func (f *fakeSession) Pending() int   { return 0 }
func (f *fakeSession) Dispose() error { return nil }

func callTool(t *testing.T, handler mcp.ToolHandler, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	raw, err := json.Marshal(args)
	require.NoError(t, err)

	result, err := handler(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      "validate_schema",
			Arguments: raw,
		},
	})
	require.NoError(t, err)

	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestValidateSchemaHandler_Success(t *testing.T) {
	session := &fakeSession{
		result: &tgsparser.Result{Success: true, Schemas: 2},
	}

	result := callTool(t, validateSchemaHandler(session), map[string]any{
		"file_path": "order.tgs",
		"content":   "create schema Order(Id: int;)",
	})

	require.False(t, result.IsError)
	require.Equal(t, "order.tgs", session.lastPath)

	var report validateReport

	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &report))
	require.True(t, report.Success)
	require.Equal(t, 2, report.Schemas)
	require.Empty(t, report.Diagnostics)
}

func TestValidateSchemaHandler_Diagnostics(t *testing.T) {
	session := &fakeSession{
		result: &tgsparser.Result{
			Success: false,
			Diagnostics: []tgsparser.Diagnostic{
				{Line: 2, Message: "missing semicolon"},
			},
		},
	}

	result := callTool(t, validateSchemaHandler(session), map[string]any{
		"file_path": "order.tgs",
		"content":   "a\nb\nc\nd\ne",
	})

	require.False(t, result.IsError)

	var report validateReport

	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &report))
	require.False(t, report.Success)
	require.Len(t, report.Diagnostics, 1)
	require.Equal(t, 2, report.Diagnostics[0].Line)
	require.Equal(t, "missing semicolon", report.Diagnostics[0].Message)
}

func TestValidateSchemaHandler_SessionError(t *testing.T) {
	session := &fakeSession{err: tgsparser.ErrStartupTimeout}

	result := callTool(t, validateSchemaHandler(session), map[string]any{
		"file_path": "order.tgs",
		"content":   "x",
	})

	require.True(t, result.IsError)
	require.Contains(t, textOf(t, result), "daemon startup timeout")
}

func TestValidateSchemaHandler_BadArguments(t *testing.T) {
	session := &fakeSession{result: &tgsparser.Result{Success: true}}

	result, err := validateSchemaHandler(session)(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      "validate_schema",
			Arguments: json.RawMessage(`{"file_path": 42}`),
		},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestValidateFileHandler(t *testing.T) {
	session := &fakeSession{
		result: &tgsparser.Result{Success: true, Imports: 1},
	}

	result := callTool(t, validateFileHandler(session), map[string]any{
		"file_path": "schemas/order.tgs",
	})

	require.False(t, result.IsError)
	require.Equal(t, "schemas/order.tgs", session.lastPath)
}

func TestNewServer_RegistersTools(t *testing.T) {
	server := newServer(&fakeSession{result: &tgsparser.Result{Success: true}})
	require.NotNil(t, server)
}
