package capturedriver

import (
	"context"
	"sync"
)

// simHandle is the concrete Stream/Event implementation handed out by
// PerThreadPool. Its identity is its id, matching spec.md's "handle
// identity is the driver value itself".
type simHandle struct{ id int }

func (h simHandle) ID() int { return h.id }

// PerThreadPool is a free-list-backed pool of stream or event handles,
// modeling the "per-thread pool" collaborator spec.md §6 describes:
// Acquire either reuses a released handle or mints a new one; Release
// returns a handle to the free list rather than destroying it. It is safe
// for concurrent use by multiple goroutines optimizing disjoint graphs.
//
// A fresh PerThreadPool starts empty, so the first N acquisitions in a
// single Optimize call always yield ids 0..N-1 in order — this is what
// lets optimizer.RoundRobin treat "stream i" and "the i-th acquired
// stream" as the same thing.
type PerThreadPool struct {
	mu   sync.Mutex
	next int
	free []int
}

// NewPerThreadPool creates an empty pool.
func NewPerThreadPool() *PerThreadPool {
	return &PerThreadPool{}
}

func (p *PerThreadPool) take() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		return id
	}
	id := p.next
	p.next++
	return id
}

func (p *PerThreadPool) give(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, id)
}

// AcquireStream implements StreamPool.
func (p *PerThreadPool) AcquireStream(ctx context.Context) (*ScopedStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := p.take()
	return &ScopedStream{
		Stream:  simHandle{id: id},
		release: func() { p.give(id) },
	}, nil
}

// AcquireEvent implements EventPool.
func (p *PerThreadPool) AcquireEvent(ctx context.Context) (*ScopedEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := p.take()
	return &ScopedEvent{
		Event:   simHandle{id: id},
		release: func() { p.give(id) },
	}, nil
}

// streamPoolAdapter and eventPoolAdapter let PerThreadPool satisfy both
// StreamPool and EventPool — a single concrete implementation exposed
// through two narrow, purpose-specific interfaces. Both adapters draw ids
// from the wrapped pool's one counter and free list, so streams and events
// get separate id spaces only when each adapter wraps its own
// PerThreadPool, as every caller in this module does.
type streamPoolAdapter struct{ pool *PerThreadPool }

func (a streamPoolAdapter) Acquire(ctx context.Context) (*ScopedStream, error) {
	return a.pool.AcquireStream(ctx)
}

type eventPoolAdapter struct{ pool *PerThreadPool }

func (a eventPoolAdapter) Acquire(ctx context.Context) (*ScopedEvent, error) {
	return a.pool.AcquireEvent(ctx)
}

// NewStreamPool adapts a PerThreadPool to StreamPool.
func NewStreamPool(p *PerThreadPool) StreamPool { return streamPoolAdapter{pool: p} }

// NewEventPool adapts a PerThreadPool to EventPool.
func NewEventPool(p *PerThreadPool) EventPool { return eventPoolAdapter{pool: p} }
