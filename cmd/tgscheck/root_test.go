package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	tgsparser "github.com/tgs-lang/parser-sdk-go"
)

// fakeSession returns canned results keyed by file path.
type fakeSession struct {
	results map[string]*tgsparser.Result
}

func (f *fakeSession) Initialize(_ context.Context) error { return nil }

func (f *fakeSession) Submit(_ context.Context, filePath, _ string) (*tgsparser.Result, error) {
	if result, ok := f.results[filePath]; ok {
		return result, nil
	}

	return &tgsparser.Result{Success: true}, nil
}

func (f *fakeSession) SubmitFile(ctx context.Context, filePath string) (*tgsparser.Result, error) {
	return f.Submit(ctx, filePath, "")
}

func (f *fakeSession) Ready() bool    { return true }
func (f *fakeSession) Pending() int   { return 0 }
func (f *fakeSession) Dispose() error { return nil }

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRunCheck_AllValid(t *testing.T) {
	path := writeTempFile(t, "a.tgs", "create schema A(Id: int;)")

	session := &fakeSession{results: map[string]*tgsparser.Result{
		path: {Success: true, Schemas: 1},
	}}

	var out strings.Builder

	err := runCheck(context.Background(), session, []string{path}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "ok (1 schemas, 0 enums, 0 imports)")
}

func TestRunCheck_ReportsFailures(t *testing.T) {
	good := writeTempFile(t, "good.tgs", "create schema A(Id: int;)")
	bad := writeTempFile(t, "bad.tgs", "create schema B(Id int)")

	session := &fakeSession{results: map[string]*tgsparser.Result{
		good: {Success: true},
		bad: {
			Success: false,
			Diagnostics: []tgsparser.Diagnostic{
				{Line: 0, Message: "expected ':' after field name"},
			},
		},
	}}

	var out strings.Builder

	err := runCheck(context.Background(), session, []string{good, bad}, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 files failed")

	// The diagnostics table shows 1-based line numbers.
	require.Contains(t, out.String(), "expected ':' after field name")
	require.Contains(t, out.String(), "1")
}

func TestRunCheck_MissingFile(t *testing.T) {
	session := &fakeSession{}

	var out strings.Builder

	err := runCheck(context.Background(), session, []string{"/nonexistent/x.tgs"}, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read /nonexistent/x.tgs")
}

func TestRenderDiagnostics_OneBasedLines(t *testing.T) {
	rendered := renderDiagnostics("order.tgs", []tgsparser.Diagnostic{
		{Line: 2, Message: "missing semicolon"},
	})

	require.Contains(t, rendered, "order.tgs")
	require.Contains(t, rendered, "3")
	require.Contains(t, rendered, "missing semicolon")
}
