package optimizer

import (
	"context"
	"time"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
	"github.com/kjhansen/streamcapture/pkg/errors"
	"github.com/kjhansen/streamcapture/pkg/observability"
	"github.com/kjhansen/streamcapture/pkg/topo"
)

// RoundRobin distributes a graph's nodes across a fixed number of streams,
// assigning each node to stream `idx mod NumStreams` where idx is the
// node's position within its level (spec.md §4.3). An event is recorded
// only where a dependency edge actually crosses a stream boundary; a node
// with every successor on its own stream never pays for synchronization
// it doesn't need.
type RoundRobin struct {
	numStreams int
}

// NewRoundRobin creates a RoundRobin strategy fanning out across
// numStreams streams. numStreams must be positive.
func NewRoundRobin(numStreams int) (*RoundRobin, error) {
	r := &RoundRobin{}
	if err := r.SetNumStreams(numStreams); err != nil {
		return nil, err
	}
	return r, nil
}

// NumStreams returns the configured stream count.
func (r *RoundRobin) NumStreams() int { return r.numStreams }

// SetNumStreams updates the stream count. n must be positive.
func (r *RoundRobin) SetNumStreams(n int) error {
	if n <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "num streams must be positive, got %d", n)
	}
	r.numStreams = n
	return nil
}

// Name implements Strategy.
func (r *RoundRobin) Name() string { return "round-robin" }

// Optimize implements Strategy.
func (r *RoundRobin) Optimize(
	ctx context.Context,
	g *capturegraph.Graph,
	driver capturedriver.DriverOps,
	streams capturedriver.StreamPool,
	events capturedriver.EventPool,
) (capturedriver.NativeGraph, error) {
	start := time.Now()
	nodeCount := g.NodeCount()
	observability.Capture().OnOptimizeStart(ctx, "round-robin", nodeCount)

	native, err := r.runRoundRobin(ctx, g, driver, streams, events)

	observability.Capture().OnOptimizeComplete(ctx, "round-robin", nodeCount, time.Since(start), err)
	return native, err
}

func (r *RoundRobin) runRoundRobin(
	ctx context.Context,
	g *capturegraph.Graph,
	driver capturedriver.DriverOps,
	streamPool capturedriver.StreamPool,
	eventPool capturedriver.EventPool,
) (capturedriver.NativeGraph, error) {
	if r.numStreams <= 0 {
		return capturedriver.NativeGraph{}, errors.New(errors.ErrCodeInvalidArgument, "round-robin strategy has no stream count configured")
	}

	g.ResetMeta()
	_, order := topo.Levelize(g)

	for _, n := range order {
		n.Meta().Stream = n.Meta().Idx % r.numStreams
	}

	streamHandles := make([]*capturedriver.ScopedStream, r.numStreams)
	for i := range streamHandles {
		s, err := streamPool.Acquire(ctx)
		if err != nil {
			releaseStreams(streamHandles)
			return capturedriver.NativeGraph{}, errors.Wrap(errors.ErrCodeDriverFailure, err, "acquire stream %d", i)
		}
		streamHandles[i] = s
	}
	defer releaseStreams(streamHandles)

	if err := driver.BeginCapture(ctx, streamHandles[0], capturedriver.CaptureModeThreadLocal); err != nil {
		return capturedriver.NativeGraph{}, errors.Wrap(errors.ErrCodeDriverFailure, err, "begin capture on origin stream")
	}

	abort := func(cause error) (capturedriver.NativeGraph, error) {
		_, _ = driver.EndCapture(ctx, streamHandles[0])
		return capturedriver.NativeGraph{}, cause
	}

	var infraEvents []*capturedriver.ScopedEvent
	defer func() { releaseEvents(infraEvents) }()

	if r.numStreams > 1 {
		forkEvent, err := eventPool.Acquire(ctx)
		if err != nil {
			return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "acquire fork event"))
		}
		infraEvents = append(infraEvents, forkEvent)
		if err := driver.RecordEvent(ctx, forkEvent, streamHandles[0]); err != nil {
			return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "record fork event"))
		}
		for i := 1; i < r.numStreams; i++ {
			if err := driver.StreamWaitEvent(ctx, streamHandles[i], forkEvent); err != nil {
				return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "stream %d wait on fork event", i))
			}
		}
	}

	lastOnStream := make([]*capturegraph.Node, r.numStreams)

	for _, n := range order {
		nodeStream := n.Meta().Stream
		target := streamHandles[nodeStream]
		lastOnStream[nodeStream] = n

		waited := make(map[int]bool)
		for _, dep := range n.Dependents() {
			if dep.Meta().Stream == nodeStream {
				continue
			}
			eh := dep.Meta().Event
			if !eh.Recorded() || waited[eh.Event.ID()] {
				continue
			}
			if err := driver.StreamWaitEvent(ctx, target, eh.Event); err != nil {
				return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "stream %d wait on node %q", nodeStream, dep.ID()))
			}
			waited[eh.Event.ID()] = true
			observability.Capture().OnStreamWait(ctx, n.ID(), nodeStream, dep.Meta().Stream)
		}

		if n.Work() != nil {
			if err := n.Work()(target); err != nil {
				return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "work for node %q", n.ID()))
			}
		}

		crossesStream := false
		for _, succ := range n.Successors() {
			if succ.Meta().Stream != nodeStream {
				crossesStream = true
				break
			}
		}
		if crossesStream {
			ev, err := eventPool.Acquire(ctx)
			if err != nil {
				return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "acquire event for node %q", n.ID()))
			}
			if err := driver.RecordEvent(ctx, ev, target); err != nil {
				return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "record event for node %q", n.ID()))
			}
			n.Meta().Event = capturedriver.EventHandle{Event: ev}
			infraEvents = append(infraEvents, ev)
			observability.Capture().OnEventRecorded(ctx, n.ID(), nodeStream)
		}
	}

	for i := 1; i < r.numStreams; i++ {
		tail := lastOnStream[i]
		var joinEvent capturedriver.Event
		if tail != nil && tail.Meta().Event.Recorded() {
			joinEvent = tail.Meta().Event.Event
		} else {
			ev, err := eventPool.Acquire(ctx)
			if err != nil {
				return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "acquire join event for stream %d", i))
			}
			if err := driver.RecordEvent(ctx, ev, streamHandles[i]); err != nil {
				return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "record join event for stream %d", i))
			}
			infraEvents = append(infraEvents, ev)
			joinEvent = ev
		}
		if err := driver.StreamWaitEvent(ctx, streamHandles[0], joinEvent); err != nil {
			return abort(errors.Wrap(errors.ErrCodeDriverFailure, err, "join wait on stream %d", i))
		}
	}

	native, err := driver.EndCapture(ctx, streamHandles[0])
	if err != nil {
		return capturedriver.NativeGraph{}, errors.Wrap(errors.ErrCodeDriverFailure, err, "end capture")
	}
	return native, nil
}

func releaseStreams(streams []*capturedriver.ScopedStream) {
	for _, s := range streams {
		if s != nil {
			s.Release()
		}
	}
}

func releaseEvents(events []*capturedriver.ScopedEvent) {
	for _, e := range events {
		if e != nil {
			e.Release()
		}
	}
}
