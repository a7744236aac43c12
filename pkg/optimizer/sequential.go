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

// Sequential runs every node's Work on a single stream, in topological
// order, with no cross-stream synchronization. It is the simplest
// correct strategy and the baseline every RoundRobin schedule is
// compared against.
type Sequential struct{}

// Name implements Strategy.
func (Sequential) Name() string { return "sequential" }

// Optimize implements Strategy.
func (Sequential) Optimize(
	ctx context.Context,
	g *capturegraph.Graph,
	driver capturedriver.DriverOps,
	streams capturedriver.StreamPool,
	events capturedriver.EventPool,
) (capturedriver.NativeGraph, error) {
	start := time.Now()
	nodeCount := g.NodeCount()
	observability.Capture().OnOptimizeStart(ctx, "sequential", nodeCount)

	native, err := runSequential(ctx, g, driver, streams)

	observability.Capture().OnOptimizeComplete(ctx, "sequential", nodeCount, time.Since(start), err)
	return native, err
}

func runSequential(
	ctx context.Context,
	g *capturegraph.Graph,
	driver capturedriver.DriverOps,
	streams capturedriver.StreamPool,
) (capturedriver.NativeGraph, error) {
	g.ResetMeta()
	order := topo.TopologicalSort(g)

	stream, err := streams.Acquire(ctx)
	if err != nil {
		return capturedriver.NativeGraph{}, errors.Wrap(errors.ErrCodeDriverFailure, err, "acquire stream")
	}
	defer stream.Release()

	if err := driver.BeginCapture(ctx, stream, capturedriver.CaptureModeThreadLocal); err != nil {
		return capturedriver.NativeGraph{}, errors.Wrap(errors.ErrCodeDriverFailure, err, "begin capture")
	}

	for i, n := range order {
		n.Meta().Stream = 0
		n.Meta().Idx = i
		if n.Work() == nil {
			continue
		}
		if err := n.Work()(stream); err != nil {
			_, _ = driver.EndCapture(ctx, stream)
			return capturedriver.NativeGraph{}, errors.Wrap(errors.ErrCodeDriverFailure, err, "work for node %q", n.ID())
		}
	}

	native, err := driver.EndCapture(ctx, stream)
	if err != nil {
		return capturedriver.NativeGraph{}, errors.Wrap(errors.ErrCodeDriverFailure, err, "end capture")
	}
	return native, nil
}
