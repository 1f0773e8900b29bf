package tgsparser

import (
	"context"

	"github.com/tgs-lang/parser-sdk-go/internal/config"
	"github.com/tgs-lang/parser-sdk-go/internal/protocol"
	"github.com/tgs-lang/parser-sdk-go/internal/session"
)

// sessionWrapper adapts the internal session to the public interface.
type sessionWrapper struct {
	impl *session.Session
}

// Compile-time check that *sessionWrapper implements the Session interface.
var _ Session = (*sessionWrapper)(nil)

// newSessionImpl creates the internal session implementation.
func newSessionImpl(options *config.Options) Session {
	log := options.Logger
	if log == nil {
		log = NopLogger()
	} else {
		log = log.With("sdk", "tgsparser")
	}

	var factory session.TransportFactory
	if options.Transport != nil {
		transport := options.Transport
		factory = func() config.Transport { return transport }
	}

	return &sessionWrapper{impl: session.New(log, options, factory)}
}

// Initialize starts the daemon and waits for its readiness handshake.
func (s *sessionWrapper) Initialize(ctx context.Context) error {
	return s.impl.Initialize(ctx)
}

// Submit validates document content and blocks until the result.
func (s *sessionWrapper) Submit(ctx context.Context, filePath, content string) (*Result, error) {
	env, err := s.impl.Submit(ctx, filePath, content)
	if err != nil {
		return nil, err
	}

	return newResult(env, protocol.CountLines(content)), nil
}

// SubmitFile asks the daemon to read and validate a file from disk.
func (s *sessionWrapper) SubmitFile(ctx context.Context, filePath string) (*Result, error) {
	env, err := s.impl.SubmitFile(ctx, filePath)
	if err != nil {
		return nil, err
	}

	// Document length unknown; diagnostics get the lower clamp only.
	return newResult(env, 0), nil
}

// Ready reports whether the daemon has completed its startup handshake.
func (s *sessionWrapper) Ready() bool {
	return s.impl.Ready()
}

// Pending reports the number of unresolved submissions.
func (s *sessionWrapper) Pending() int {
	return s.impl.Pending()
}

// Dispose terminates the daemon and fails all pending work.
func (s *sessionWrapper) Dispose() error {
	return s.impl.Dispose()
}
