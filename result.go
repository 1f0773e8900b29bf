package tgsparser

import "github.com/tgs-lang/parser-sdk-go/internal/protocol"

// Diagnostic is one parser error anchored to a 0-based line number.
// Line 0 with no better position means a whole-document diagnostic.
type Diagnostic = protocol.Diagnostic

// Result is the outcome of one validation request.
type Result struct {
	// Success reports whether the document parsed cleanly.
	Success bool

	// Diagnostics holds the decoded parser errors, in daemon order.
	// Empty on success.
	Diagnostics []Diagnostic

	// Schemas is the number of schema declarations found.
	Schemas int

	// Enums is the number of enum declarations found.
	Enums int

	// Imports is the number of import statements found.
	Imports int

	// File echoes the file path the daemon associated with this result,
	// when the daemon provided one.
	File string
}

// newResult converts a wire envelope into the public result form.
// totalLines positions the diagnostics; pass 0 when the document's line count
// is unknown.
func newResult(env *protocol.ResultEnvelope, totalLines int) *Result {
	return &Result{
		Success:     env.Success,
		Diagnostics: env.Diagnostics(totalLines),
		Schemas:     env.Schemas,
		Enums:       env.Enums,
		Imports:     env.Imports,
		File:        env.File,
	}
}
