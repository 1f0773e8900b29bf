package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDaemonNotFoundError(t *testing.T) {
	err := &DaemonNotFoundError{
		SearchedPaths: []string{"/usr/bin/tgs", "/opt/bin/tgs"},
	}

	require.Equal(
		t,
		"tgs executable not found in: [/usr/bin/tgs /opt/bin/tgs]",
		err.Error(),
	)
	require.True(t, err.IsParserError())
}

func TestSpawnError(t *testing.T) {
	root := errors.New("fork/exec: permission denied")
	err := &SpawnError{Err: root}

	require.Equal(t, "failed to start tgs daemon: fork/exec: permission denied", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsParserError())
}

func TestProcessExitError_WithUnderlyingError(t *testing.T) {
	root := errors.New("signal: killed")
	err := &ProcessExitError{
		ExitCode: -1,
		Stderr:   "ignored when Err is set",
		Err:      root,
	}

	require.Equal(t, "tgs daemon exited (code -1): signal: killed", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsParserError())
}

func TestProcessExitError_WithStderrOnly(t *testing.T) {
	err := &ProcessExitError{
		ExitCode: 2,
		Stderr:   "panic: out of memory",
	}

	require.Equal(t, "tgs daemon exited (code 2): panic: out of memory", err.Error())
	require.NoError(t, err.Unwrap())
	require.True(t, err.IsParserError())
}

func TestMalformedRecordError(t *testing.T) {
	root := errors.New("unexpected end of JSON input")
	err := &MalformedRecordError{
		RawRecord: `{"success":tru`,
		Err:       root,
	}

	require.Equal(t, "failed to decode daemon record: unexpected end of JSON input", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsParserError())
}
