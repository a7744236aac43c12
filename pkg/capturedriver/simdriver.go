package capturedriver

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Op is one recorded driver call inside a capture region.
type Op struct {
	Kind    OpKind
	Stream  int
	Event   int // meaningful for OpRecordEvent and OpStreamWait
	AtStamp int // monotonically increasing within the region, for ordering
}

// OpKind enumerates the kinds of driver call SimDriver records.
type OpKind int

const (
	OpWork OpKind = iota
	OpRecordEvent
	OpStreamWait
)

func (k OpKind) String() string {
	switch k {
	case OpWork:
		return "work"
	case OpRecordEvent:
		return "record-event"
	case OpStreamWait:
		return "stream-wait"
	default:
		return "unknown"
	}
}

// SimGraph is the NativeGraph.Handle produced by SimDriver. It is a plain
// record of everything captured across every stream that joined the
// region, suitable for assertions in tests and for rendering via
// pkg/dotviz — never a stand-in for a real device graph, and never
// persisted by this module.
type SimGraph struct {
	Ops        []Op
	NumStreams int
}

// StreamOps returns the ops recorded on stream id, in capture order.
func (g *SimGraph) StreamOps(id int) []Op {
	var out []Op
	for _, op := range g.Ops {
		if op.Stream == id {
			out = append(out, op)
		}
	}
	return out
}

// SimDriver is an in-process reference DriverOps implementation. It never
// touches a real device.
//
// BeginCapture opens a region on a single origin stream. A stream other
// than the origin joins that same region implicitly the moment it waits
// on an event that was recorded on an already-joined stream — mirroring
// the real driver rule that a thread-local capture silently absorbs any
// stream pulled in via cudaStreamWaitEvent, with no separate BeginCapture
// call required for the forked stream. RecordEvent and Enqueue (work)
// require the stream to have already joined the region, either as the
// origin or via a prior StreamWaitEvent.
//
// EndCapture must be called on the origin stream; it closes the region
// for every member stream at once and returns their combined ops as one
// SimGraph.
//
// SimDriver is safe for concurrent use across independent capture
// regions (each keyed by its origin stream id).
type SimDriver struct {
	mu             sync.Mutex
	regions        map[int]*region // streamID -> region it currently belongs to
	recordedRegion map[int]*region // eventID -> region it was last recorded in
	latency        time.Duration

	// FailOn, if non-empty, makes the named operation (see OpKind.String,
	// plus "begin-capture" and "end-capture") return a synthetic failure.
	// Used by tests to exercise the fatal-error / rollback paths of
	// optimizer.Sequential and optimizer.RoundRobin.
	FailOn string
}

type region struct {
	ops     []Op
	stamp   int
	members map[int]bool
}

// NewSimDriver creates a driver with no injected latency.
func NewSimDriver() *SimDriver {
	return &SimDriver{
		regions:        make(map[int]*region),
		recordedRegion: make(map[int]*region),
	}
}

// WithLatency returns a copy of d that sleeps for latency before
// acknowledging each driver call, so the CLI demo's reported durations
// are non-trivial.
func (d *SimDriver) WithLatency(latency time.Duration) *SimDriver {
	return &SimDriver{
		regions:        make(map[int]*region),
		recordedRegion: make(map[int]*region),
		latency:        latency,
		FailOn:         d.FailOn,
	}
}

func (d *SimDriver) delay(ctx context.Context) error {
	if d.latency <= 0 {
		return nil
	}
	t := time.NewTimer(d.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *SimDriver) fail(op string) bool {
	return d.FailOn == op
}

// BeginCapture implements capturedriver.DriverOps.
func (d *SimDriver) BeginCapture(ctx context.Context, s Stream, mode CaptureMode) error {
	if err := d.delay(ctx); err != nil {
		return err
	}
	if d.fail("begin-capture") {
		return fmt.Errorf("sim: injected begin-capture failure on stream %d", s.ID())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.regions[s.ID()]; ok {
		return fmt.Errorf("sim: stream %d already capturing", s.ID())
	}
	r := &region{members: map[int]bool{s.ID(): true}}
	d.regions[s.ID()] = r
	return nil
}

// EndCapture implements capturedriver.DriverOps. It must be called on the
// region's origin stream.
func (d *SimDriver) EndCapture(ctx context.Context, s Stream) (NativeGraph, error) {
	if err := d.delay(ctx); err != nil {
		return NativeGraph{}, err
	}

	d.mu.Lock()
	r, ok := d.regions[s.ID()]
	if ok {
		for member := range r.members {
			delete(d.regions, member)
		}
	}
	d.mu.Unlock()

	if d.fail("end-capture") {
		return NativeGraph{}, fmt.Errorf("sim: injected end-capture failure on stream %d", s.ID())
	}
	if !ok {
		return NativeGraph{}, fmt.Errorf("sim: stream %d was never capturing", s.ID())
	}

	graph := &SimGraph{Ops: append([]Op(nil), r.ops...), NumStreams: len(r.members)}
	return NativeGraph{Handle: graph}, nil
}

// RecordEvent implements capturedriver.DriverOps.
func (d *SimDriver) RecordEvent(ctx context.Context, e Event, s Stream) error {
	if err := d.delay(ctx); err != nil {
		return err
	}
	if d.fail("record-event") {
		return fmt.Errorf("sim: injected record-event failure on stream %d", s.ID())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.regions[s.ID()]
	if !ok {
		return fmt.Errorf("sim: stream %d is not capturing", s.ID())
	}
	d.recordedRegion[e.ID()] = r
	return d.appendOpLocked(r, Op{Kind: OpRecordEvent, Stream: s.ID(), Event: e.ID()})
}

// StreamWaitEvent implements capturedriver.DriverOps. If s has not yet
// joined any region, it implicitly joins the region the waited-on event
// was recorded in.
func (d *SimDriver) StreamWaitEvent(ctx context.Context, s Stream, e Event) error {
	if err := d.delay(ctx); err != nil {
		return err
	}
	if d.fail("stream-wait") {
		return fmt.Errorf("sim: injected stream-wait failure on stream %d", s.ID())
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.regions[s.ID()]
	if !ok {
		er, found := d.recordedRegion[e.ID()]
		if !found {
			return fmt.Errorf("sim: stream %d cannot join: event %d was never recorded", s.ID(), e.ID())
		}
		er.members[s.ID()] = true
		d.regions[s.ID()] = er
		r = er
	}
	return d.appendOpLocked(r, Op{Kind: OpStreamWait, Stream: s.ID(), Event: e.ID()})
}

// Enqueue records a unit of work on s. Work closures built by this
// module's demo graphs and tests call this to make their effect on the
// capture region observable.
func (d *SimDriver) Enqueue(ctx context.Context, s Stream) error {
	if err := d.delay(ctx); err != nil {
		return err
	}
	if d.fail("work") {
		return fmt.Errorf("sim: injected work failure on stream %d", s.ID())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.regions[s.ID()]
	if !ok {
		return fmt.Errorf("sim: stream %d is not capturing", s.ID())
	}
	return d.appendOpLocked(r, Op{Kind: OpWork, Stream: s.ID()})
}

func (d *SimDriver) appendOpLocked(r *region, op Op) error {
	op.AtStamp = r.stamp
	r.stamp++
	r.ops = append(r.ops, op)
	return nil
}
