package tgsparser

import "github.com/tgs-lang/parser-sdk-go/internal/errors"

// Re-export error types from internal package

// DaemonNotFoundError indicates the tgs binary was not found.
type DaemonNotFoundError = errors.DaemonNotFoundError

// SpawnError indicates the daemon process failed to start.
type SpawnError = errors.SpawnError

// ProcessExitError indicates the daemon process exited unexpectedly.
type ProcessExitError = errors.ProcessExitError

// MalformedRecordError indicates a daemon output record could not be decoded.
type MalformedRecordError = errors.MalformedRecordError

// ParserError is the base interface for all SDK errors.
type ParserError = errors.ParserError

// Re-export sentinel errors from internal package.
var (
	// ErrSessionNotConnected indicates the session is not connected.
	ErrSessionNotConnected = errors.ErrSessionNotConnected

	// ErrSessionDisposed indicates the session was disposed while work was pending.
	ErrSessionDisposed = errors.ErrSessionDisposed

	// ErrStartupTimeout indicates the daemon never reported ready in time.
	ErrStartupTimeout = errors.ErrStartupTimeout

	// ErrSuperseded indicates a newer submission replaced this one.
	ErrSuperseded = errors.ErrSuperseded

	// ErrStdinClosed indicates the daemon's stdin is no longer writable.
	ErrStdinClosed = errors.ErrStdinClosed
)
