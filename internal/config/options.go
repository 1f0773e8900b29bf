package config

import (
	"log/slog"
	"time"
)

const (
	// DefaultStartupTimeout bounds the wait for the daemon's ready record.
	DefaultStartupTimeout = 10 * time.Second

	// DefaultReadBufferSize is the size of a single stdout read from the daemon.
	DefaultReadBufferSize = 64 * 1024
)

// Options configures the behavior of a parser session.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// DaemonPath is an explicit path to the tgs executable.
	// If empty, the executable is searched in PATH and common locations.
	DaemonPath string

	// StartupTimeout bounds the wait for the ready record after spawning.
	// Zero means DefaultStartupTimeout.
	StartupTimeout time.Duration

	// Cwd sets the working directory for the daemon process.
	Cwd string

	// Env provides additional environment variables for the daemon process.
	Env map[string]string

	// Stderr receives each line of the daemon's stderr output as it arrives.
	Stderr func(line string)

	// ReadBufferSize is the size of a single stdout read.
	// Zero means DefaultReadBufferSize.
	ReadBufferSize int

	// SinglePending selects the single-slot multiplexing policy: a newer
	// submission supersedes whatever was previously waiting instead of
	// queueing behind it.
	SinglePending bool

	// SkipVersionCheck skips daemon version validation during discovery.
	SkipVersionCheck bool

	// Transport injects a custom transport implementation.
	// If nil, the subprocess transport is used.
	Transport Transport
}

// EffectiveStartupTimeout returns StartupTimeout with the default applied.
func (o *Options) EffectiveStartupTimeout() time.Duration {
	if o == nil || o.StartupTimeout <= 0 {
		return DefaultStartupTimeout
	}

	return o.StartupTimeout
}

// EffectiveReadBufferSize returns ReadBufferSize with the default applied.
func (o *Options) EffectiveReadBufferSize() int {
	if o == nil || o.ReadBufferSize <= 0 {
		return DefaultReadBufferSize
	}

	return o.ReadBufferSize
}
