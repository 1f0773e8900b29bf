// Package config provides configuration types for the TGS parser SDK.
package config

import "context"

// Transport defines the interface for daemon communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative communication methods (e.g., a remote daemon).
//
// The default implementation spawns the tgs executable as a subprocess.
type Transport interface {
	// Start spawns the daemon and prepares it for communication.
	// This is called before any lines are sent or received.
	Start(ctx context.Context) error

	// ReadChunks returns channels for receiving raw stdout chunks and errors.
	// Chunks carry no record alignment guarantees; framing is the consumer's
	// job. The chunk channel is closed when the stream ends; the error channel
	// then reports how the process exited, if abnormally.
	ReadChunks(ctx context.Context) (<-chan []byte, <-chan error)

	// WriteLine writes one complete request line to the daemon's stdin.
	// A trailing newline is appended if missing.
	// This method must be safe for concurrent use.
	WriteLine(ctx context.Context, line []byte) error

	// Close terminates the daemon and releases resources.
	// It's safe to call Close multiple times.
	Close() error

	// IsReady returns true if the daemon process is running and stdin is open.
	IsReady() bool
}
