package subprocess

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tgs-lang/parser-sdk-go/internal/config"
	"github.com/tgs-lang/parser-sdk-go/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFakeDaemon installs a shell script standing in for the tgs binary.
func writeFakeDaemon(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tgs")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)

	return path
}

func newTestDaemon(t *testing.T, script string) *Daemon {
	t.Helper()

	return NewDaemon(testLogger(), &config.Options{
		DaemonPath:       writeFakeDaemon(t, script),
		SkipVersionCheck: true,
	})
}

// collectOutput drains the chunk channel into a single string.
func collectOutput(t *testing.T, chunks <-chan []byte) string {
	t.Helper()

	var sb strings.Builder

	for chunk := range chunks {
		sb.Write(chunk)
	}

	return sb.String()
}

func TestStart_DaemonNotFound(t *testing.T) {
	d := NewDaemon(testLogger(), &config.Options{
		DaemonPath:       "/nonexistent/tgs",
		SkipVersionCheck: true,
	})

	err := d.Start(context.Background())
	require.Error(t, err)

	var notFound *errors.DaemonNotFoundError

	require.ErrorAs(t, err, &notFound)
	require.False(t, d.IsReady())
}

func TestReadChunks_DeliversStdout(t *testing.T) {
	d := newTestDaemon(t, `echo '{"status": "ready"}'
echo '{"success": true, "schemas": 1}'`)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))
	require.True(t, d.IsReady())

	chunks, errs := d.ReadChunks(ctx)

	output := collectOutput(t, chunks)
	require.Contains(t, output, `{"status": "ready"}`)
	require.Contains(t, output, `{"success": true, "schemas": 1}`)

	require.NoError(t, <-errs)
}

func TestWriteLine_EchoedBack(t *testing.T) {
	d := newTestDaemon(t, `echo '{"status": "ready"}'
while read line; do echo "$line"; done`)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))

	chunks, _ := d.ReadChunks(ctx)

	// Newline is appended by the transport.
	require.NoError(t, d.WriteLine(ctx, []byte(`{"content": "", "file_path": "a.tgs"}`)))

	var output strings.Builder

	deadline := time.After(5 * time.Second)

	for !strings.Contains(output.String(), "a.tgs") {
		select {
		case chunk, ok := <-chunks:
			require.True(t, ok, "stream ended before echo arrived: %q", output.String())
			output.Write(chunk)
		case <-deadline:
			t.Fatalf("timed out waiting for echo, got %q", output.String())
		}
	}

	require.NoError(t, d.Close())
}

func TestReadChunks_ReportsAbnormalExit(t *testing.T) {
	d := newTestDaemon(t, `echo 'panic: schema table corrupt' >&2
exit 3`)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))

	chunks, errs := d.ReadChunks(ctx)
	collectOutput(t, chunks)

	err := <-errs
	require.Error(t, err)

	var exitErr *errors.ProcessExitError

	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.ExitCode)
	require.Contains(t, exitErr.Stderr, "schema table corrupt")
}

func TestClose_SuppressesExitError(t *testing.T) {
	d := newTestDaemon(t, `echo '{"status": "ready"}'
sleep 60`)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))

	chunks, errs := d.ReadChunks(ctx)

	// Wait for the ready line so the process is definitely up.
	require.Contains(t, string(<-chunks), "ready")

	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "Close must be idempotent")

	collectOutput(t, chunks)

	// The kill-induced exit is intentional and must not be reported.
	require.NoError(t, <-errs)
	require.False(t, d.IsReady())
}

func TestStderrCallback(t *testing.T) {
	lines := make(chan string, 4)

	d := NewDaemon(testLogger(), &config.Options{
		DaemonPath: writeFakeDaemon(t, `echo 'warming up' >&2
echo '{"status": "ready"}'`),
		SkipVersionCheck: true,
		Stderr:           func(line string) { lines <- line },
	})

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))

	chunks, errs := d.ReadChunks(ctx)
	collectOutput(t, chunks)
	require.NoError(t, <-errs)

	select {
	case line := <-lines:
		require.Equal(t, "warming up", line)
	case <-time.After(5 * time.Second):
		t.Fatal("stderr callback never invoked")
	}
}

func TestWriteLine_NotConnected(t *testing.T) {
	d := NewDaemon(testLogger(), &config.Options{})

	err := d.WriteLine(context.Background(), []byte("x"))
	require.ErrorIs(t, err, errors.ErrSessionNotConnected)
}

func TestWriteLine_AfterClose(t *testing.T) {
	d := newTestDaemon(t, `sleep 60`)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))
	require.NoError(t, d.Close())

	err := d.WriteLine(ctx, []byte("x"))
	require.ErrorIs(t, err, errors.ErrStdinClosed)
}
