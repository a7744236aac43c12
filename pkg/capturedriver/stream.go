package capturedriver

import "context"

// Stream is a handle to a hardware command queue. Commands issued to a
// Stream execute (or, under capture, get recorded) in submission order.
type Stream interface {
	// ID returns the driver's native identifier for this stream.
	ID() int
}

// ScopedStream pairs a Stream with the release of whatever resources the
// StreamPool committed to producing it. Release is idempotent and must be
// called on every exit path — Go has no destructors, so callers are
// expected to `defer scoped.Release()` immediately after a successful
// Acquire, the way the rest of this codebase uses deferred Close/Release
// instead of RAII.
type ScopedStream struct {
	Stream
	release func()
}

// Release returns the stream to its pool. Safe to call more than once.
func (s *ScopedStream) Release() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// StreamPool hands out scoped streams. Implementations must be safe for
// concurrent use, since independent Optimize calls on disjoint graphs may
// share a pool.
type StreamPool interface {
	Acquire(ctx context.Context) (*ScopedStream, error)
}
