package prolog

import "context"

// Stream is a lazy sequence of success environments: a goroutine
// producing solutions paired with a channel the consumer pulls from,
// draining on cancellation.
//
// Every producer in this package writes to its Stream from a single
// goroutine and in strict left-to-right, definition order — SLD
// resolution's order contract requires it, and concurrent fan-out
// would scramble it.
//
// A subtlety this design has to account for: every solution shares
// one mutable *Environment (the trail/union-find store, see
// bindings.go), rather than an immutable per-solution substitution.
// A plain channel handoff is not enough — once Next returns, the
// producer goroutine would be free to keep running and mutate the very
// Environment the consumer is still reading. Stream closes this gap
// with a second rendezvous: the producer blocks after every Put until
// the consumer's *next* call to Next explicitly resumes it. This is
// what makes the "goroutine with a channel" realization safe for a
// mutable, trail-backed store: at any instant exactly one goroutine in
// the whole proof tree is actually running.
type Stream struct {
	ch      chan *Environment
	resume  chan struct{}
	done    chan struct{}
	started bool
}

// NewStream creates an empty, open stream.
func NewStream() *Stream {
	return &Stream{
		ch:     make(chan *Environment),
		resume: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// put delivers one success environment to the stream's consumer, then
// blocks until the consumer asks (via Next) for the next one, or the
// stream is abandoned. The bool result is false if the stream was
// closed before the producer could resume — callers should stop.
func (s *Stream) put(env *Environment) bool {
	select {
	case s.ch <- env:
	case <-s.done:
		return false
	}
	select {
	case <-s.resume:
		return true
	case <-s.done:
		return false
	}
}

// Close signals that no more environments will be put and releases any
// producer currently blocked in put. Idempotent.
func (s *Stream) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Next blocks for the next success environment. ok is false once the
// stream is exhausted or ctx is cancelled. The environment returned by
// a call to Next must be fully consumed (its bindings read or copied
// out) before the next call to Next — that next call is what lets the
// producer resume mutating it.
func (s *Stream) Next(ctx context.Context) (*Environment, bool) {
	if s.started {
		select {
		case s.resume <- struct{}{}:
		case <-s.done:
		}
	}
	s.started = true

	select {
	case env, open := <-s.ch:
		if !open {
			return nil, false
		}
		return env, true
	case <-s.done:
		return nil, false
	case <-ctx.Done():
		s.Close()
		return nil, false
	}
}

// emptyStream returns an already-closed stream with no solutions —
// the realization of goal "fail".
func emptyStream() *Stream {
	s := NewStream()
	s.Close()
	return s
}

// singletonStream returns a stream that yields env once, then closes —
// the realization of goal "true".
func singletonStream(env *Environment) *Stream {
	s := NewStream()
	go func() {
		defer s.Close()
		s.put(env)
	}()
	return s
}

// drain forwards every environment from src into dst, honoring ctx
// cancellation. It is the building block conjunction and disjunction
// use to relay a nested stream's solutions without breaking the
// single-active-goroutine discipline: each forwarded Put fully
// completes (including dst's resume handshake) before src is asked for
// its next solution.
//
// The returned bool is false once dst has been abandoned by its
// consumer — callers that loop to produce further alternatives (e.g.
// conjunction moving on to the next solution of its left goal) must
// stop entirely in that case, not just stop forwarding this src.
func drain(ctx context.Context, dst, src *Stream) bool {
	for {
		env, ok := src.Next(ctx)
		if !ok {
			return true
		}
		if !dst.put(env) {
			src.Close()
			return false
		}
	}
}
