package session

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tgs-lang/parser-sdk-go/internal/config"
	"github.com/tgs-lang/parser-sdk-go/internal/errors"
	"github.com/tgs-lang/parser-sdk-go/internal/framer"
	"github.com/tgs-lang/parser-sdk-go/internal/mux"
	"github.com/tgs-lang/parser-sdk-go/internal/protocol"
	"github.com/tgs-lang/parser-sdk-go/internal/subprocess"
)

// TransportFactory builds a fresh transport for each cold start.
// Restarting after a crash or Dispose always gets a new transport instance.
type TransportFactory func() config.Transport

// Session owns one daemon process and its in-flight work.
type Session struct {
	log          *slog.Logger
	options      *config.Options
	newTransport TransportFactory
	requests     mux.Multiplexer

	// start deduplicates concurrent cold starts: callers await the same
	// pending attempt instead of spawning a second process.
	start singleflight.Group

	mu         sync.Mutex
	transport  config.Transport
	ready      bool
	runCtx     context.Context
	cancelRead context.CancelFunc
	// gen invalidates stale read loops: every start and teardown bumps it,
	// and a loop whose generation no longer matches must not touch state.
	gen int
}

// New creates a session from the given options.
//
// factory may be nil, in which case the subprocess transport is used. The
// multiplexing policy follows options.SinglePending.
func New(log *slog.Logger, options *config.Options, factory TransportFactory) *Session {
	if options == nil {
		options = &config.Options{}
	}

	if factory == nil {
		factory = func() config.Transport {
			return subprocess.NewDaemon(log, options)
		}
	}

	var requests mux.Multiplexer
	if options.SinglePending {
		requests = mux.NewSingleSlot(log)
	} else {
		requests = mux.NewQueue(log)
	}

	return &Session{
		log:          log.With("component", "session"),
		options:      options,
		newTransport: factory,
		requests:     requests,
	}
}

// Ready reports whether the daemon has completed its startup handshake.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ready
}

// Pending reports the number of unresolved submissions.
func (s *Session) Pending() int {
	return s.requests.Pending()
}

// Initialize starts the daemon and waits for its readiness record.
//
// Idempotent: it returns immediately when the session is already ready.
// Concurrent callers share a single start attempt. The wait is bounded by
// the configured startup deadline; on timeout the child is terminated and
// ErrStartupTimeout is returned. The caller's context cancels only the
// caller's wait, never the shared attempt.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()

	if ready {
		return nil
	}

	ch := s.start.DoChan("start", func() (any, error) {
		return nil, s.coldStart()
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// coldStart spawns a fresh daemon and waits for the ready record.
func (s *Session) coldStart() error {
	s.mu.Lock()

	if s.ready {
		s.mu.Unlock()

		return nil
	}

	// Stamp the generation before spawning. A Dispose racing the spawn
	// bumps the generation, so the recheck below catches it and the fresh
	// process does not outlive the dispose.
	s.gen++
	gen := s.gen

	s.mu.Unlock()

	s.log.Info("Cold-starting daemon session")

	transport := s.newTransport()

	runCtx, cancel := context.WithCancel(context.Background())

	if err := transport.Start(runCtx); err != nil {
		cancel()

		return err
	}

	readyCh := make(chan struct{})
	exitCh := make(chan error, 1)

	s.mu.Lock()

	if s.gen != gen {
		// Disposed while starting.
		s.mu.Unlock()
		cancel()

		_ = transport.Close()

		return errors.ErrSessionDisposed
	}

	s.transport = transport
	s.runCtx = runCtx
	s.cancelRead = cancel
	s.mu.Unlock()

	chunks, errs := transport.ReadChunks(runCtx)

	go s.readLoop(gen, chunks, errs, readyCh, exitCh)

	timeout := s.options.EffectiveStartupTimeout()

	select {
	case <-readyCh:
		s.mu.Lock()

		if s.gen != gen {
			// Disposed while starting.
			s.mu.Unlock()

			return errors.ErrSessionDisposed
		}

		s.ready = true
		s.mu.Unlock()

		s.log.Info("Daemon session ready")

		// Drain anything enqueued while the handshake was in progress.
		s.pump()

		return nil

	case err := <-exitCh:
		s.log.Error("Daemon exited before ready", "error", err)

		return err

	case <-time.After(timeout):
		s.log.Error("Daemon never reported ready", "timeout", timeout)
		s.teardown(gen, fmt.Errorf("%w after %s", errors.ErrStartupTimeout, timeout))

		return fmt.Errorf("%w after %s", errors.ErrStartupTimeout, timeout)
	}
}

// Submit sends a content-carrying request and waits for its envelope.
//
// The session lazily initializes if not ready. Cancelling ctx abandons only
// this caller's wait: there is no mid-flight cancellation of a request
// already written to the daemon.
func (s *Session) Submit(ctx context.Context, filePath, content string) (*protocol.ResultEnvelope, error) {
	payload, err := protocol.EncodeRequest(content, filePath)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	return s.submit(ctx, filePath, payload)
}

// SubmitFile sends the alternate bare-path request form.
func (s *Session) SubmitFile(ctx context.Context, filePath string) (*protocol.ResultEnvelope, error) {
	return s.submit(ctx, filePath, protocol.EncodeFileRequest(filePath))
}

func (s *Session) submit(ctx context.Context, key string, payload []byte) (*protocol.ResultEnvelope, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	outcome := s.requests.Enqueue(key, payload)

	s.pump()

	select {
	case out := <-outcome:
		if out.Err != nil {
			return nil, out.Err
		}

		return out.Envelope, nil

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pump writes the next queued request to the wire, if the wire is free.
//
// Called after every enqueue and every response; the multiplexer guarantees
// at most one claim succeeds, so concurrent pumps are harmless. Every claim
// is paired with the transport generation observed before it: if a teardown
// swept the queue between the two, the claim is returned unsent instead of
// being written to a later process, which would desynchronize the
// one-request-one-response accounting.
func (s *Session) pump() {
	for {
		s.mu.Lock()
		transport, ready, runCtx, gen := s.transport, s.ready, s.runCtx, s.gen
		s.mu.Unlock()

		req, ok := s.requests.NextToSend()
		if !ok {
			return
		}

		if transport == nil || !ready {
			s.requests.OnSendFailure(req, errors.ErrSessionNotConnected)

			return
		}

		s.mu.Lock()
		stale := s.gen != gen
		s.mu.Unlock()

		if stale {
			s.requests.Requeue(req)

			continue
		}

		if err := transport.WriteLine(runCtx, req.Payload); err != nil {
			// Reject immediately: this entry must never wait for a
			// response that will not arrive.
			s.requests.OnSendFailure(req, fmt.Errorf("write request: %w", err))

			continue
		}

		return
	}
}

// readLoop frames chunks into records and routes them.
//
// Exactly one loop consumes a transport's stdout. The first ready record
// completes the handshake; every other decodable record resolves the oldest
// outstanding request. Malformed records are logged and skipped. When the
// stream ends the loop reports how the process died and sweeps pending work.
func (s *Session) readLoop(
	gen int,
	chunks <-chan []byte,
	errs <-chan error,
	readyCh chan struct{},
	exitCh chan<- error,
) {
	defer s.log.Debug("Session read loop stopped")

	var lines framer.Framer

	handshakeDone := false

	for chunk := range chunks {
		for _, record := range lines.Feed(chunk) {
			if len(bytes.TrimSpace(record)) == 0 {
				continue
			}

			decoded, err := protocol.DecodeRecord(record)
			if err != nil {
				// Uncorrelatable, so recovered internally: skip and continue.
				s.log.Warn("Skipping malformed record", "error", err)

				continue
			}

			if decoded.Ready {
				if handshakeDone {
					s.log.Warn("Duplicate ready record ignored")

					continue
				}

				handshakeDone = true

				close(readyCh)

				continue
			}

			s.requests.OnResponse(decoded.Envelope)
			s.pump()
		}
	}

	// Stream ended: surface the exit as a failure for all pending work.
	var exitErr error
	if err, ok := <-errs; ok && err != nil {
		exitErr = err
	}

	if exitErr == nil {
		exitErr = &errors.ProcessExitError{}
	}

	s.teardown(gen, exitErr)

	exitCh <- exitErr
}

// teardown flips the session to not-ready, closes the transport, and fails
// all pending work, unless gen shows a newer start or dispose already did.
func (s *Session) teardown(gen int, cause error) {
	s.mu.Lock()

	if s.gen != gen {
		s.mu.Unlock()

		return
	}

	s.gen++
	s.ready = false
	transport := s.transport
	cancel := s.cancelRead
	s.transport = nil
	s.runCtx = nil
	s.cancelRead = nil

	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if transport != nil {
		_ = transport.Close()
	}

	s.requests.FailAll(cause)
}

// Dispose terminates the daemon and fails all pending work.
//
// Idempotent. State is fully reset: a subsequent Initialize performs a clean
// cold start.
func (s *Session) Dispose() error {
	s.mu.Lock()

	s.gen++
	s.ready = false
	transport := s.transport
	cancel := s.cancelRead
	s.transport = nil
	s.runCtx = nil
	s.cancelRead = nil

	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	var closeErr error

	if transport != nil {
		s.log.Info("Disposing daemon session")

		closeErr = transport.Close()
	}

	s.requests.FailAll(errors.ErrSessionDisposed)

	return closeErr
}
