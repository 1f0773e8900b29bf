package tgsparser

import "context"

// Session provides a stateful interface to one tgs daemon process.
//
// A session owns at most one daemon at a time and serializes requests onto
// its wire: one line out, one result record back, strictly in order. All
// methods are safe for concurrent use.
//
// Sessions survive daemon crashes. An unexpected exit fails every pending
// submission with ProcessExitError, and the next Submit spawns a fresh
// process transparently.
//
// Example usage:
//
//	session := tgsparser.NewSession(
//	    tgsparser.WithLogger(slog.Default()),
//	)
//	defer session.Dispose()
//
//	result, err := session.Submit(ctx, "order.tgs", content)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, d := range result.Diagnostics {
//	    fmt.Printf("line %d: %s\n", d.Line+1, d.Message)
//	}
type Session interface {
	// Initialize starts the daemon and waits for its readiness handshake.
	// Optional: Submit initializes lazily. Idempotent, and concurrent
	// callers share a single start attempt. Returns DaemonNotFoundError if
	// the binary cannot be located, SpawnError on start failure, or
	// ErrStartupTimeout if the ready record never arrives in time.
	Initialize(ctx context.Context) error

	// Submit validates document content and blocks until the result.
	// filePath names the document for diagnostics; content is the full text
	// to validate. Cancelling ctx abandons only this caller's wait; the
	// request itself is never cancelled mid-flight.
	Submit(ctx context.Context, filePath, content string) (*Result, error)

	// SubmitFile asks the daemon to read and validate a file from disk.
	// Diagnostic line numbers are clamped only at the lower bound since the
	// document's length is unknown to the SDK.
	SubmitFile(ctx context.Context, filePath string) (*Result, error)

	// Ready reports whether the daemon has completed its startup handshake.
	Ready() bool

	// Pending reports the number of unresolved submissions.
	Pending() int

	// Dispose terminates the daemon and fails all pending work with
	// ErrSessionDisposed. Idempotent. The session may be reused afterwards;
	// the next Initialize or Submit performs a clean cold start.
	Dispose() error
}

// NewSession creates a session from the given options.
//
// The daemon is not spawned until the first Initialize or Submit.
func NewSession(opts ...Option) Session {
	return newSessionImpl(applyOptions(opts))
}
