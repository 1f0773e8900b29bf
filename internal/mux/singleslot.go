package mux

import (
	"log/slog"
	"sync"

	"github.com/tgs-lang/parser-sdk-go/internal/errors"
	"github.com/tgs-lang/parser-sdk-go/internal/protocol"
)

// SingleSlot is the supersede multiplexing policy.
//
// At most one request waits at a time: a newer submission immediately rejects
// the previous waiters with ErrSuperseded and takes the slot. Superseded
// callers never see a result for their original input and must re-submit. A
// request superseded after it was written stays behind as an orphan so its
// response is still consumed and then discarded; the one-in-one-out
// accounting must hold.
type SingleSlot struct {
	log *slog.Logger

	mu sync.Mutex
	// inFlight was written to the wire and awaits its response.
	inFlight *Request
	// next holds the sole waiting request.
	next *Request
}

// Compile-time verification that SingleSlot implements Multiplexer.
var _ Multiplexer = (*SingleSlot)(nil)

// NewSingleSlot creates a single-slot multiplexer.
func NewSingleSlot(log *slog.Logger) *SingleSlot {
	return &SingleSlot{
		log: log.With("component", "mux", "policy", "single-slot"),
	}
}

// Enqueue accepts a submission, superseding whatever was previously waiting.
func (s *SingleSlot) Enqueue(key string, payload []byte) <-chan Outcome {
	s.mu.Lock()

	superseded := s.next
	s.next = nil

	var orphan *Request

	if s.inFlight != nil && !s.inFlight.orphaned {
		orphan = s.inFlight
		orphan.orphaned = true
	}

	req, ch := newRequest(key, payload)
	s.next = req

	s.mu.Unlock()

	if superseded != nil {
		s.log.Debug("Superseding queued request", "request_id", superseded.ID, "key", superseded.Key)
		superseded.resolve(Outcome{Err: errors.ErrSuperseded})
	}

	if orphan != nil {
		s.log.Debug("Superseding in-flight request", "request_id", orphan.ID, "key", orphan.Key)
		orphan.resolve(Outcome{Err: errors.ErrSuperseded})
	}

	s.log.Debug("Enqueued request", "request_id", req.ID, "key", key)

	return ch
}

// NextToSend claims the waiting request once the wire is free.
func (s *SingleSlot) NextToSend() (*Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight != nil || s.next == nil {
		return nil, false
	}

	req := s.next
	s.next = nil
	req.sent = true
	s.inFlight = req

	s.log.Debug("Sending request", "request_id", req.ID, "key", req.Key)

	return req, true
}

// OnSendFailure rejects the request whose write failed and frees the wire.
func (s *SingleSlot) OnSendFailure(req *Request, err error) {
	s.mu.Lock()

	if s.inFlight == req {
		s.inFlight = nil
	}

	if s.next == req {
		s.next = nil
	}

	orphaned := req.orphaned

	s.mu.Unlock()

	if !orphaned {
		s.log.Warn("Rejecting request after send failure", "request_id", req.ID, "key", req.Key, "error", err)
		req.resolve(Outcome{Err: err})
	}
}

// Requeue returns a claimed request to the waiting slot unsent.
// An orphaned claim is only released; its waiters were already rejected.
func (s *SingleSlot) Requeue(req *Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight != req {
		return
	}

	s.inFlight = nil

	if !req.orphaned && s.next == nil {
		req.sent = false
		s.next = req

		s.log.Debug("Returning claimed request to slot", "request_id", req.ID, "key", req.Key)
	}
}

// OnResponse resolves the in-flight request, or discards the response if its
// request was superseded after sending.
func (s *SingleSlot) OnResponse(env *protocol.ResultEnvelope) {
	s.mu.Lock()

	req := s.inFlight
	s.inFlight = nil

	s.mu.Unlock()

	if req == nil {
		s.log.Warn("Dropping response with no request outstanding")

		return
	}

	if req.orphaned {
		s.log.Debug("Discarding response for superseded request", "request_id", req.ID, "key", req.Key)

		return
	}

	s.log.Debug("Resolving request", "request_id", req.ID, "key", req.Key, "success", env.Success)
	req.resolve(Outcome{Envelope: env})
}

// FailAll rejects every pending request in one sweep.
func (s *SingleSlot) FailAll(err error) {
	s.mu.Lock()

	inFlight := s.inFlight
	next := s.next
	s.inFlight = nil
	s.next = nil

	s.mu.Unlock()

	if inFlight != nil && !inFlight.orphaned {
		inFlight.resolve(Outcome{Err: err})
	}

	if next != nil {
		next.resolve(Outcome{Err: err})
	}
}

// Pending reports the number of unresolved requests.
func (s *SingleSlot) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	if s.inFlight != nil && !s.inFlight.orphaned {
		n++
	}

	if s.next != nil {
		n++
	}

	return n
}
