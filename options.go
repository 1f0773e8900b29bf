package tgsparser

import (
	"log/slog"
	"time"

	"github.com/tgs-lang/parser-sdk-go/internal/config"
)

// Option configures a session using the functional options pattern.
type Option func(*config.Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithDaemonPath sets the explicit path to the tgs binary.
// If not set, the binary is searched in PATH and common install locations.
func WithDaemonPath(path string) Option {
	return func(o *config.Options) {
		o.DaemonPath = path
	}
}

// WithStartupTimeout bounds the wait for the daemon's ready record.
// On timeout the child is terminated and ErrStartupTimeout is returned.
func WithStartupTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.StartupTimeout = timeout
	}
}

// WithCwd sets the working directory for the daemon process.
func WithCwd(cwd string) Option {
	return func(o *config.Options) {
		o.Cwd = cwd
	}
}

// WithEnv provides additional environment variables for the daemon process.
func WithEnv(env map[string]string) Option {
	return func(o *config.Options) {
		o.Env = env
	}
}

// WithStderr sets a callback function receiving each daemon stderr line.
func WithStderr(handler func(string)) Option {
	return func(o *config.Options) {
		o.Stderr = handler
	}
}

// WithReadBufferSize sets the size of a single stdout read from the daemon.
func WithReadBufferSize(size int) Option {
	return func(o *config.Options) {
		o.ReadBufferSize = size
	}
}

// WithSinglePending selects the single-slot multiplexing policy: a newer
// submission supersedes whatever was previously waiting instead of queueing
// behind it. Superseded callers receive ErrSuperseded.
func WithSinglePending() Option {
	return func(o *config.Options) {
		o.SinglePending = true
	}
}

// WithSkipVersionCheck skips daemon version validation during discovery.
func WithSkipVersionCheck() Option {
	return func(o *config.Options) {
		o.SkipVersionCheck = true
	}
}

// WithTransport injects a custom transport implementation.
// The transport must implement the Transport interface.
func WithTransport(transport config.Transport) Option {
	return func(o *config.Options) {
		o.Transport = transport
	}
}
