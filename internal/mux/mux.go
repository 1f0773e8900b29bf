// Package mux serializes caller requests onto the daemon's one-at-a-time
// wire contract.
//
// The wire protocol has no request IDs: the daemon answers strictly
// one-for-one, in request order. The multiplexer makes that implicit ordering
// an explicit invariant: at most one wire request is ever outstanding, and
// the Nth response received is the result for the Nth request sent. Two
// policies exist, mirroring the two designs the protocol admits: a FIFO queue
// with same-key coalescing (the default), and a single slot where a newer
// submission supersedes whatever was waiting.
package mux

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tgs-lang/parser-sdk-go/internal/protocol"
)

// Outcome is the terminal result of one submission: exactly one of Envelope
// or Err is set, and each waiter receives it exactly once.
type Outcome struct {
	Envelope *protocol.ResultEnvelope
	Err      error
}

// Request is one outstanding unit of work, owned by the multiplexer from
// enqueue until resolution, rejection, or supersession.
type Request struct {
	// ID is a ULID used for log correlation only; it never goes on the wire.
	ID string

	// Key is the caller-supplied identity, typically a file path.
	Key string

	// Payload is the encoded wire line, without its trailing newline.
	Payload []byte

	// EnqueuedAt records when the request was accepted.
	EnqueuedAt time.Time

	waiters []chan Outcome

	// sent marks the request as written to the wire.
	sent bool

	// orphaned marks a single-slot request superseded after sending: its
	// waiters are gone but its response must still be consumed to keep the
	// one-in-one-out accounting intact.
	orphaned bool
}

func newRequest(key string, payload []byte) (*Request, chan Outcome) {
	ch := make(chan Outcome, 1)

	return &Request{
		ID:         ulid.Make().String(),
		Key:        key,
		Payload:    payload,
		EnqueuedAt: time.Now(),
		waiters:    []chan Outcome{ch},
	}, ch
}

// attach adds another waiter to a coalesced request.
func (r *Request) attach() chan Outcome {
	ch := make(chan Outcome, 1)
	r.waiters = append(r.waiters, ch)

	return ch
}

// resolve delivers the outcome to every attached waiter exactly once.
// Waiter channels are buffered, so abandoned callers never block delivery.
func (r *Request) resolve(out Outcome) {
	for _, w := range r.waiters {
		w <- out
	}

	r.waiters = nil
}

// Multiplexer is the policy interface shared by Queue and SingleSlot.
//
// All methods are safe for concurrent use. The caller drives the send side:
// after Enqueue or OnResponse, call NextToSend and write the returned payload;
// report write errors through OnSendFailure.
type Multiplexer interface {
	// Enqueue accepts a submission and returns the channel its outcome will
	// be delivered on.
	Enqueue(key string, payload []byte) <-chan Outcome

	// NextToSend claims the next request for the wire. It returns false when
	// a request is already in flight or nothing is waiting.
	NextToSend() (*Request, bool)

	// OnSendFailure rejects the request whose wire write failed. It must
	// never be left waiting for a response that will not arrive.
	OnSendFailure(req *Request, err error)

	// Requeue returns a claimed request to the sendable position unsent,
	// for claims that must not be written after all. A request already
	// swept or superseded is left alone.
	Requeue(req *Request)

	// OnResponse resolves the in-flight request with the decoded envelope.
	// A response with nothing outstanding is dropped.
	OnResponse(env *protocol.ResultEnvelope)

	// FailAll rejects every pending request in one sweep.
	FailAll(err error)

	// Pending reports the number of unresolved requests.
	Pending() int
}
