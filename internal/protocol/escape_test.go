package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	require.Equal(t, "expected '<' before '>'", Unescape("expected \\u0027\\u003C\\u0027 before \\u0027\\u003E\\u0027"))
}

func TestEscapeRoundTrip(t *testing.T) {
	// Literal angle brackets, apostrophes, and even the delimiter token
	// itself must survive an encode/decode cycle.
	messages := []string{
		"expected '<' but found '>'",
		"token <SPACE> is reserved",
		"plain message, nothing special",
		"<<>>''",
	}

	for _, msg := range messages {
		escaped := Escape(msg)
		require.Equal(t, msg, Unescape(escaped), "round trip of %q", msg)
	}
}

func TestEscape_NeverProducesDelimiter(t *testing.T) {
	require.NotContains(t, Escape("a <SPACE> b"), Delimiter)
}

func TestParseDiagnostic(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		totalLines int
		wantLine   int
		wantMsg    string
	}{
		{
			name:       "line anchored",
			raw:        "3<SPACE>missing semicolon",
			totalLines: 5,
			wantLine:   2,
			wantMsg:    "missing semicolon",
		},
		{
			name:       "no delimiter falls back to whole document",
			raw:        "unexpected end of file",
			totalLines: 5,
			wantLine:   0,
			wantMsg:    "unexpected end of file",
		},
		{
			name:       "non-integer line falls back to whole document",
			raw:        "abc<SPACE>broken",
			totalLines: 5,
			wantLine:   0,
			wantMsg:    "abc<SPACE>broken",
		},
		{
			name:       "line beyond document clamps to last line",
			raw:        "42<SPACE>stale position",
			totalLines: 5,
			wantLine:   4,
			wantMsg:    "stale position",
		},
		{
			name:       "line zero clamps up",
			raw:        "0<SPACE>before first line",
			totalLines: 5,
			wantLine:   0,
			wantMsg:    "before first line",
		},
		{
			name:       "unknown document length skips upper clamp",
			raw:        "42<SPACE>file based",
			totalLines: 0,
			wantLine:   41,
			wantMsg:    "file based",
		},
		{
			name:       "escapes reversed in message",
			raw:        "2<SPACE>expected \\u0027;\\u0027 after \\u003Cfield\\u003E",
			totalLines: 5,
			wantLine:   1,
			wantMsg:    "expected ';' after <field>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseDiagnostic(tt.raw, tt.totalLines)
			require.Equal(t, tt.wantLine, d.Line)
			require.Equal(t, tt.wantMsg, d.Message)
		})
	}
}

func TestDiagnostics(t *testing.T) {
	env := &ResultEnvelope{
		Success: false,
		Errors:  []string{"3<SPACE>missing semicolon", "duplicate schema name"},
	}

	diags := env.Diagnostics(5)
	require.Len(t, diags, 2)
	require.Equal(t, Diagnostic{Line: 2, Message: "missing semicolon"}, diags[0])
	require.Equal(t, Diagnostic{Line: 0, Message: "duplicate schema name"}, diags[1])

	require.Nil(t, (&ResultEnvelope{Success: true}).Diagnostics(5))
}

func TestCountLines(t *testing.T) {
	require.Equal(t, 1, CountLines(""))
	require.Equal(t, 1, CountLines("one line"))
	require.Equal(t, 3, CountLines("a\nb\nc"))
	require.Equal(t, 5, CountLines("l1\nl2\nl3\nl4\n"))
}
