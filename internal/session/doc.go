// Package session composes the transport, framer, codec, and multiplexer
// into the session facade the public API is built on.
//
// A Session owns at most one daemon process at a time. Initialize is
// single-flight: concurrent callers share one start attempt, bounded by the
// startup deadline. Submit lazily initializes, enqueues through the
// multiplexer, and blocks until the matching response or a rejection.
// Unexpected daemon exit fails all pending work and clears the process
// handle, so the next Submit performs a clean cold start. Dispose tears
// everything down and leaves the session re-initializable.
package session
