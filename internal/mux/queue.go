package mux

import (
	"log/slog"
	"sync"

	"github.com/tgs-lang/parser-sdk-go/internal/protocol"
)

// Queue is the FIFO-with-dedup multiplexing policy.
//
// Requests are held in submission order; a response always matches the head,
// since the daemon answers one-for-one in request order. Concurrent
// submissions sharing a key are coalesced onto the existing unresolved entry
// (queued or in flight), so every caller gets the eventual result while the
// wire sees the request once.
type Queue struct {
	log *slog.Logger

	mu sync.Mutex
	// entries[0] is the in-flight request once inFlight is set.
	entries  []*Request
	byKey    map[string]*Request
	inFlight bool
}

// Compile-time verification that Queue implements Multiplexer.
var _ Multiplexer = (*Queue)(nil)

// NewQueue creates a FIFO multiplexer.
func NewQueue(log *slog.Logger) *Queue {
	return &Queue{
		log:   log.With("component", "mux", "policy", "fifo"),
		byKey: make(map[string]*Request, 8),
	}
}

// Enqueue accepts a submission, coalescing onto an existing unresolved entry
// for the same key.
func (q *Queue) Enqueue(key string, payload []byte) <-chan Outcome {
	q.mu.Lock()
	defer q.mu.Unlock()

	if existing, ok := q.byKey[key]; ok {
		q.log.Debug("Coalescing submission onto pending request",
			"request_id", existing.ID, "key", key, "waiters", len(existing.waiters)+1)

		return existing.attach()
	}

	req, ch := newRequest(key, payload)
	q.entries = append(q.entries, req)
	q.byKey[key] = req

	q.log.Debug("Enqueued request", "request_id", req.ID, "key", key, "depth", len(q.entries))

	return ch
}

// NextToSend claims the head of the queue for the wire.
func (q *Queue) NextToSend() (*Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inFlight || len(q.entries) == 0 {
		return nil, false
	}

	head := q.entries[0]
	head.sent = true
	q.inFlight = true

	q.log.Debug("Sending request", "request_id", head.ID, "key", head.Key)

	return head, true
}

// OnSendFailure rejects the request whose write failed and frees the wire.
//
// A request already swept by FailAll is left entirely alone: touching byKey
// or the in-flight flag on its behalf could detach a newer same-key entry
// or free a wire that a different request genuinely occupies.
func (q *Queue) OnSendFailure(req *Request, err error) {
	q.mu.Lock()

	idx := -1

	for i, e := range q.entries {
		if e == req {
			idx = i

			break
		}
	}

	if idx < 0 {
		q.mu.Unlock()
		q.log.Debug("Ignoring send failure for swept request", "request_id", req.ID, "key", req.Key)

		return
	}

	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)

	if q.byKey[req.Key] == req {
		delete(q.byKey, req.Key)
	}

	if idx == 0 && req.sent {
		q.inFlight = false
	}

	q.mu.Unlock()

	q.log.Warn("Rejecting request after send failure", "request_id", req.ID, "key", req.Key, "error", err)
	req.resolve(Outcome{Err: err})
}

// Requeue returns a claimed request to the head of the queue unsent.
// A request no longer at the head was already swept and is left alone.
func (q *Queue) Requeue(req *Request) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inFlight && len(q.entries) > 0 && q.entries[0] == req {
		req.sent = false
		q.inFlight = false

		q.log.Debug("Returning claimed request to queue", "request_id", req.ID, "key", req.Key)
	}
}

// OnResponse pops the head of the queue and resolves its waiters.
func (q *Queue) OnResponse(env *protocol.ResultEnvelope) {
	q.mu.Lock()

	if !q.inFlight || len(q.entries) == 0 {
		q.mu.Unlock()
		q.log.Warn("Dropping response with no request outstanding")

		return
	}

	head := q.entries[0]
	q.entries = q.entries[1:]
	delete(q.byKey, head.Key)
	q.inFlight = false

	q.mu.Unlock()

	q.log.Debug("Resolving request", "request_id", head.ID, "key", head.Key, "success", env.Success)
	head.resolve(Outcome{Envelope: env})
}

// FailAll rejects every pending request in one sweep.
func (q *Queue) FailAll(err error) {
	q.mu.Lock()
	entries := q.entries
	q.entries = nil
	q.byKey = make(map[string]*Request, 8)
	q.inFlight = false
	q.mu.Unlock()

	if len(entries) > 0 {
		q.log.Warn("Failing all pending requests", "count", len(entries), "error", err)
	}

	for _, req := range entries {
		req.resolve(Outcome{Err: err})
	}
}

// Pending reports the number of unresolved requests.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.entries)
}
