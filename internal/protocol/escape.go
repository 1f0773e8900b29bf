package protocol

import (
	"strconv"
	"strings"
)

// Delimiter separates the line number from the message in a wire error
// string. The daemon encodes literal angle brackets and apostrophes inside
// messages as numeric escapes, so the token below can only ever come from the
// daemon itself.
const Delimiter = "<SPACE>"

// unescaper reverses the daemon's numeric escapes. The daemon emits these as
// literal six-character sequences (they survive JSON decoding untouched).
// The delimiter's own escaped form decodes through the same table.
var unescaper = strings.NewReplacer(
	"\\u003C", "<",
	"\\u003E", ">",
	"\\u0027", "'",
)

// escaper is the inverse table, used by the daemon side of the contract and
// kept here so the round trip stays testable.
var escaper = strings.NewReplacer(
	"<", "\\u003C",
	">", "\\u003E",
	"'", "\\u0027",
)

// Unescape reverses the daemon's numeric escapes in an error message.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// Escape applies the daemon's numeric escapes to a literal message.
func Escape(s string) string {
	return escaper.Replace(s)
}

// ParseDiagnostic decodes one wire error string.
//
// The wire format is "<1-based line><SPACE><message>". The split happens
// before unescaping: escaped angle brackets cannot form the delimiter, so
// only the daemon's own token is ever matched. A missing delimiter or a line
// number that fails to parse falls back to a whole-document diagnostic at
// line 0, protecting against stale or mismatched documents. Parsed lines are
// converted to 0-based and clamped to [0, totalLines-1]; totalLines <= 0
// means the document length is unknown and only the lower bound applies.
func ParseDiagnostic(raw string, totalLines int) Diagnostic {
	head, rest, found := strings.Cut(raw, Delimiter)
	if !found {
		return Diagnostic{Line: 0, Message: Unescape(raw)}
	}

	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return Diagnostic{Line: 0, Message: Unescape(raw)}
	}

	line := n - 1
	if line < 0 {
		line = 0
	}

	if totalLines > 0 && line > totalLines-1 {
		line = totalLines - 1
	}

	return Diagnostic{Line: line, Message: Unescape(rest)}
}

// CountLines returns the number of lines in a document, for clamping.
// The empty document still has one line.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}
