package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	tgsparser "github.com/tgs-lang/parser-sdk-go"
)

const serverVersion = "0.1.0"

// validateArgs are the arguments of the validate_schema tool.
type validateArgs struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

// validateFileArgs are the arguments of the validate_file tool.
type validateFileArgs struct {
	FilePath string `json:"file_path"`
}

// validateReport is the tool output, serialized as JSON text content.
type validateReport struct {
	Success     bool               `json:"success"`
	Diagnostics []diagnosticReport `json:"diagnostics,omitempty"`
	Schemas     int                `json:"schemas"`
	Enums       int                `json:"enums"`
	Imports     int                `json:"imports"`
}

// diagnosticReport is one parser error with a 0-based line number.
type diagnosticReport struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// run serves the MCP protocol on stdio until ctx is cancelled.
func run(ctx context.Context, session tgsparser.Session) error {
	server := newServer(session)

	return server.Run(ctx, &mcp.StdioTransport{})
}

// newServer builds the MCP server with the validation tools registered.
func newServer(session tgsparser.Session) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tgs-mcp",
		Version: serverVersion,
	}, nil)

	server.AddTool(&mcp.Tool{
		Name:        "validate_schema",
		Description: "Validate .tgs schema content and report parser diagnostics",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path": {Type: "string", Description: "Name of the document, used in diagnostics"},
				"content":   {Type: "string", Description: "Full .tgs document text to validate"},
			},
			Required: []string{"file_path", "content"},
		},
	}, validateSchemaHandler(session))

	server.AddTool(&mcp.Tool{
		Name:        "validate_file",
		Description: "Validate a .tgs schema file read from disk by the daemon",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path": {Type: "string", Description: "Path to the .tgs file on disk"},
			},
			Required: []string{"file_path"},
		},
	}, validateFileHandler(session))

	return server
}

// validateSchemaHandler validates inline content through the shared session.
func validateSchemaHandler(session tgsparser.Session) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args validateArgs
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return errorResult("invalid arguments: " + err.Error()), nil
		}

		result, err := session.Submit(ctx, args.FilePath, args.Content)
		if err != nil {
			return errorResult("validation failed: " + err.Error()), nil
		}

		return reportResult(result)
	}
}

// validateFileHandler validates an on-disk file through the shared session.
func validateFileHandler(session tgsparser.Session) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args validateFileArgs
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return errorResult("invalid arguments: " + err.Error()), nil
		}

		result, err := session.SubmitFile(ctx, args.FilePath)
		if err != nil {
			return errorResult("validation failed: " + err.Error()), nil
		}

		return reportResult(result)
	}
}

// reportResult renders a validation result as JSON text content.
func reportResult(result *tgsparser.Result) (*mcp.CallToolResult, error) {
	report := validateReport{
		Success: result.Success,
		Schemas: result.Schemas,
		Enums:   result.Enums,
		Imports: result.Imports,
	}

	for _, d := range result.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, diagnosticReport{
			Line:    d.Line,
			Message: d.Message,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

// errorResult wraps a message as an is_error tool result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}
