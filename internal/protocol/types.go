package protocol

// ResultEnvelope is one decoded daemon response.
//
// Envelopes are transient: each is constructed from a single wire record and
// handed straight to the waiting caller. Errors holds the raw error strings
// exactly as they appeared on the wire; use Diagnostics to decode them.
type ResultEnvelope struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
	Schemas int      `json:"schemas,omitempty"`
	Enums   int      `json:"enums,omitempty"`
	Imports int      `json:"imports,omitempty"`
	File    string   `json:"file,omitempty"`
}

// Diagnostics decodes every raw error string into a positioned diagnostic.
// totalLines is the line count of the document the request was built from;
// pass 0 when unknown (bare-path requests) to skip the upper clamp.
func (e *ResultEnvelope) Diagnostics(totalLines int) []Diagnostic {
	if len(e.Errors) == 0 {
		return nil
	}

	diags := make([]Diagnostic, 0, len(e.Errors))
	for _, raw := range e.Errors {
		diags = append(diags, ParseDiagnostic(raw, totalLines))
	}

	return diags
}

// Diagnostic is one decoded parser error, anchored to a 0-based line.
// Line 0 with no better position means a whole-document diagnostic.
type Diagnostic struct {
	Line    int
	Message string
}
