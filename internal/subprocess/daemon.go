package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/tgs-lang/parser-sdk-go/internal/config"
	"github.com/tgs-lang/parser-sdk-go/internal/daemon"
	"github.com/tgs-lang/parser-sdk-go/internal/errors"
)

// maxStderrBufferSize caps the stderr buffer kept for exit reporting.
// Stderr reading continues past the cap (the callback still receives every
// line), but the buffer stops growing to bound memory usage.
const maxStderrBufferSize = 1024 * 1024 // 1MB

// Daemon implements Transport by spawning the tgs executable in daemon mode.
//
// The child's standard streams are always piped, never inherited, and
// handlers are attached before any data can arrive. Stdout is delivered as
// raw chunks with no record alignment; framing belongs to the consumer.
type Daemon struct {
	log            *slog.Logger
	options        *config.Options
	daemonPath     string
	args           []string
	env            []string
	cwd            string
	cmd            *exec.Cmd
	stdin          io.WriteCloser
	stdout         io.ReadCloser
	stderr         io.ReadCloser
	stderrCallback func(string)
	mu             sync.Mutex // Protects stdin writes and lifecycle flags
	closing        bool       // Whether Close() has been called (intentional shutdown)
	stdinClosed    bool       // Whether stdin was closed (e.g., due to context cancellation)
}

// Compile-time verification that Daemon implements the Transport interface.
var _ config.Transport = (*Daemon)(nil)

// NewDaemon creates a new subprocess transport.
//
// Executable discovery is deferred to Start(), which searches for the tgs
// binary in the following order:
//  1. The explicit path in options.DaemonPath (if provided)
//  2. The system PATH
//  3. Common installation directories (/usr/local/bin, /usr/bin, ~/.local/bin, ~/.cargo/bin)
//
// Start() returns DaemonNotFoundError if the executable cannot be located.
func NewDaemon(log *slog.Logger, options *config.Options) *Daemon {
	return &Daemon{
		log:            log.With("component", "subprocess"),
		options:        options,
		stderrCallback: options.Stderr,
	}
}

// Start spawns the tgs daemon process.
//
// This method discovers the executable, builds the daemon-mode invocation,
// and spawns the process with stdin, stdout, and stderr piped.
//
// Returns DaemonNotFoundError if the executable cannot be located, or
// SpawnError if the process fails to start.
func (t *Daemon) Start(ctx context.Context) error {
	t.log.Info("Starting tgs daemon")

	discoverer := daemon.NewDiscoverer(&daemon.Config{
		DaemonPath:       t.options.DaemonPath,
		SkipVersionCheck: t.options.SkipVersionCheck,
		Logger:           t.log,
	})

	daemonPath, err := discoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover daemon: %w", err)
	}

	t.daemonPath = daemonPath

	t.args = daemon.BuildArgs()
	t.env = daemon.BuildEnvironment(t.options)

	t.cwd = t.options.Cwd
	if t.cwd == "" {
		t.cwd, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
	}

	t.log.Debug("Built daemon invocation", "daemon_path", t.daemonPath, "args", t.args, "cwd", t.cwd)

	//nolint:gosec // G204: spawning the discovered daemon binary is the point of this package
	cmd := exec.CommandContext(ctx, t.daemonPath, t.args...)
	cmd.Dir = t.cwd
	cmd.Env = t.env

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	t.stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	t.stdout = stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		t.log.Error("Failed to create stderr pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	t.stderr = stderr

	if err := cmd.Start(); err != nil {
		t.log.Error("Failed to start daemon process", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("start process: %w", err)}
	}

	t.cmd = cmd
	t.log.Info("tgs daemon started", "pid", cmd.Process.Pid)

	return nil
}

// ReadChunks reads raw stdout data from the daemon.
//
// This method starts a goroutine that performs blocking reads on the daemon's
// stdout and forwards each chunk, unframed, to the chunk channel. A second
// goroutine drains stderr into a capped buffer (and the configured callback).
//
// When stdout reaches EOF the chunk channel is closed, the process is waited
// on, and an abnormal exit is reported on the error channel as a
// ProcessExitError carrying the exit code and captured stderr. An exit during
// an intentional Close() is not reported.
func (t *Daemon) ReadChunks(ctx context.Context) (<-chan []byte, <-chan error) {
	chunks := make(chan []byte)
	errs := make(chan error, 1)

	var stderrWg sync.WaitGroup

	var stderrBuffer strings.Builder

	var stderrMu sync.Mutex

	// Stderr must be fully read before Wait().
	// See: https://pkg.go.dev/os/exec#Cmd.StderrPipe
	stderrWg.Go(func() {
		t.drainStderr(ctx, &stderrBuffer, &stderrMu)
	})

	go func() {
		defer close(chunks)
		defer close(errs)
		defer t.log.Debug("ReadChunks goroutine stopped")

		bufSize := t.options.EffectiveReadBufferSize()

		for {
			// A fresh buffer per read: chunks are handed off to the consumer
			// and must not be overwritten by the next read.
			buf := make([]byte, bufSize)

			n, err := t.stdout.Read(buf)
			if n > 0 {
				select {
				case chunks <- buf[:n]:
				case <-ctx.Done():
					t.log.Debug("Context cancelled during chunk send", "error", ctx.Err())

					errs <- ctx.Err()

					return
				}
			}

			if err != nil {
				if !stderrors.Is(err, io.EOF) {
					t.log.Debug("Stdout read ended", "error", err)
				}

				break
			}
		}

		stderrWg.Wait()

		t.log.Debug("Waiting for daemon process to exit")

		if err := t.cmd.Wait(); err != nil {
			t.mu.Lock()
			isClosing := t.closing
			t.mu.Unlock()

			if isClosing {
				t.log.Debug("Daemon terminated during shutdown")

				return
			}

			stderrMu.Lock()
			stderrOutput := strings.TrimSpace(stderrBuffer.String())
			stderrMu.Unlock()

			exitCode := 0

			if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
				exitCode = exitErr.ExitCode()
			}

			t.log.Error("Daemon exited with error", "exit_code", exitCode, "stderr", stderrOutput)

			errs <- &errors.ProcessExitError{
				ExitCode: exitCode,
				Stderr:   stderrOutput,
				Err:      err,
			}
		} else {
			t.log.Info("Daemon exited cleanly")
		}
	}()

	return chunks, errs
}

// drainStderr reads stderr lines into the capped buffer and the callback.
func (t *Daemon) drainStderr(ctx context.Context, buffer *strings.Builder, bufferMu *sync.Mutex) {
	// Plain line loop - relies on process kill to close the pipe and unblock
	// the read.
	reader := bufio.NewReader(t.stderr)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\n")

		if line != "" {
			bufferMu.Lock()

			if buffer.Len() < maxStderrBufferSize {
				if buffer.Len() > 0 {
					buffer.WriteString("\n")
				}

				buffer.WriteString(line)
			}

			bufferMu.Unlock()

			if t.stderrCallback != nil {
				t.stderrCallback(line)
			}
		}

		if err != nil {
			if !stderrors.Is(err, io.EOF) {
				t.log.Debug("Stderr read error", "error", err)
			}

			return
		}
	}
}

// WriteLine writes one request line to the daemon's stdin.
//
// A trailing newline is appended if missing. This method is safe for
// concurrent use and respects context cancellation even during blocked
// writes: if the context is cancelled mid-write, stdin is closed to unblock
// the writer, and subsequent calls return ErrStdinClosed.
func (t *Daemon) WriteLine(ctx context.Context, line []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stdin == nil {
		return errors.ErrSessionNotConnected
	}

	if t.stdinClosed {
		return errors.ErrStdinClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.log.Debug("Writing request line", "line_len", len(line))

	// Use explicit copy to avoid mutating the caller's backing array.
	if len(line) == 0 || line[len(line)-1] != '\n' {
		newLine := make([]byte, len(line)+1)
		copy(newLine, line)
		newLine[len(line)] = '\n'
		line = newLine
	}

	// Write in a goroutine so a blocked pipe still honors cancellation.
	done := make(chan error, 1)

	go func() {
		_, err := t.stdin.Write(line)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.log.Error("Failed to write request line", "error", err)

			return fmt.Errorf("write to stdin: %w", err)
		}

		return nil

	case <-ctx.Done():
		t.log.Debug("Context cancelled during write, closing stdin")

		if t.stdin != nil {
			_ = t.stdin.Close()
			t.stdinClosed = true
		}

		select {
		case <-done:
		case <-time.After(1 * time.Second):
			t.log.Warn("Write goroutine did not exit after stdin close, potential leak")
		}

		return ctx.Err()
	}
}

// IsReady checks if the daemon process is running and stdin is open.
func (t *Daemon) IsReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cmd != nil && t.cmd.Process != nil && t.stdin != nil && !t.stdinClosed
}

// Close terminates the daemon process.
//
// This forcefully kills the process using SIGKILL. The daemon holds no state
// worth a graceful shutdown; pending work is the session's responsibility.
// Safe to call multiple times or on an already-terminated process.
func (t *Daemon) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closing = true
	t.stdinClosed = true

	if t.cmd != nil && t.cmd.Process != nil {
		t.log.Debug("Killing daemon process", "pid", t.cmd.Process.Pid)

		if err := t.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill daemon process (pid %d): %w", t.cmd.Process.Pid, err)
		}
	}

	return nil
}
