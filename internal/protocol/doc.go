// Package protocol implements the wire codec for the tgs parser daemon.
//
// The daemon speaks newline-delimited JSON over stdin/stdout. Outbound
// requests are single-line JSON objects carrying the document content and its
// file path (or a bare path for file-based requests). Inbound records are
// either the one-time readiness handshake {"status":"ready"} or a result
// envelope answering the oldest outstanding request. The protocol carries no
// request IDs: responses arrive strictly one-for-one, in request order, and
// correlation is the multiplexer's job.
//
// Error strings use a small micro-format: "<1-based line><SPACE><message>",
// with angle brackets and apostrophes inside the message encoded as numeric
// escapes so message text can never fake the delimiter. The codec reverses
// those escapes and converts line numbers to clamped 0-based positions.
package protocol
