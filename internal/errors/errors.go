package errors

import (
	"errors"
	"fmt"
)

// ParserError is the base interface for all SDK errors.
type ParserError interface {
	error
	IsParserError() bool
}

// Compile-time verification that all error types implement ParserError.
var (
	_ ParserError = (*DaemonNotFoundError)(nil)
	_ ParserError = (*SpawnError)(nil)
	_ ParserError = (*ProcessExitError)(nil)
	_ ParserError = (*MalformedRecordError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrSessionNotConnected indicates the session has no running daemon.
	ErrSessionNotConnected = errors.New("session not connected")

	// ErrSessionDisposed indicates the session was torn down while work was pending.
	ErrSessionDisposed = errors.New("session disposed")

	// ErrStartupTimeout indicates the daemon never reported ready within the deadline.
	ErrStartupTimeout = errors.New("daemon startup timeout")

	// ErrSuperseded indicates a newer request for the same slot replaced this one
	// before it completed (single-slot policy only).
	ErrSuperseded = errors.New("superseded by newer request")

	// ErrStdinClosed indicates the daemon's stdin was closed due to context cancellation.
	ErrStdinClosed = errors.New("stdin closed")
)

// DaemonNotFoundError indicates the tgs executable was not found.
//
// This is deliberately distinct from SpawnError so callers can tell "install
// the tool" apart from every other start failure.
type DaemonNotFoundError struct {
	SearchedPaths []string
}

func (e *DaemonNotFoundError) Error() string {
	return fmt.Sprintf("tgs executable not found in: %v", e.SearchedPaths)
}

// IsParserError implements ParserError.
func (e *DaemonNotFoundError) IsParserError() bool { return true }

// SpawnError indicates an OS-level failure starting the daemon process.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start tgs daemon: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsParserError implements ParserError.
func (e *SpawnError) IsParserError() bool { return true }

// ProcessExitError indicates the daemon process terminated, expectedly or not.
type ProcessExitError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tgs daemon exited (code %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("tgs daemon exited (code %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessExitError) Unwrap() error {
	return e.Err
}

// IsParserError implements ParserError.
func (e *ProcessExitError) IsParserError() bool { return true }

// MalformedRecordError indicates a daemon output record failed to decode.
//
// These are recovered internally: the record is logged and skipped, because a
// response that cannot be decoded cannot be correlated to any caller either.
// The error preserves the raw record for debugging.
type MalformedRecordError struct {
	RawRecord string
	Err       error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("failed to decode daemon record: %v", e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// IsParserError implements ParserError.
func (e *MalformedRecordError) IsParserError() bool { return true }
