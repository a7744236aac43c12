package capturedriver

import "context"

// Event is a record-once, wait-many synchronization primitive spanning
// streams. Once RecordEvent is called against it on one stream, any later
// StreamWaitEvent against it on another stream observes all work enqueued
// on the recording stream up to that point.
type Event interface {
	// ID returns the driver's native identifier for this event.
	ID() int
}

// EventHandle is the zero-value-friendly handle stored on
// capturegraph.CaptureMeta. A zero EventHandle means "no event recorded" —
// per spec.md §4.3, a node only carries an event when it has at least one
// cross-stream successor.
type EventHandle struct {
	Event *ScopedEvent
}

// Recorded reports whether an event has actually been recorded into this
// handle. Used by the round-robin strategy to implement invariant P2: a
// node's event is set if and only if it has a cross-stream successor.
func (h EventHandle) Recorded() bool { return h.Event != nil }

// ScopedEvent pairs an Event with the release of whatever resources the
// EventPool committed to producing it.
type ScopedEvent struct {
	Event
	release func()
}

// Release returns the event to its pool. Safe to call more than once.
func (e *ScopedEvent) Release() {
	if e.release != nil {
		e.release()
		e.release = nil
	}
}

// EventPool hands out scoped events. Implementations must be safe for
// concurrent use.
//
// Event storage on the caller's side (see optimizer.RoundRobin) must be a
// growable, non-relocating collection per spec.md §9: previously recorded
// events must remain addressable until EndCapture. A Go slice of
// *ScopedEvent already satisfies this — growing the slice only ever copies
// the pointers, never the pointed-to Event, so an EventHandle taken before
// a later append remains valid. No third-party data structure is needed
// for this; it is the one place in the domain stack where the standard
// library's slice-of-pointers is the correct tool, not a gap in the
// dependency wiring.
type EventPool interface {
	Acquire(ctx context.Context) (*ScopedEvent, error)
}
