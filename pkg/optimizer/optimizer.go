package optimizer

import (
	"context"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
)

// Strategy captures a graph's work onto one or more streams and returns
// the resulting native graph.
type Strategy interface {
	// Name identifies the strategy for logging, caching, and the run
	// ledger.
	Name() string

	// Optimize drives the capture. Implementations must leave g's
	// CaptureMeta populated with the schedule they chose (Level, Idx,
	// Stream, Event) so callers can inspect or cache the resulting Plan.
	Optimize(
		ctx context.Context,
		g *capturegraph.Graph,
		driver capturedriver.DriverOps,
		streams capturedriver.StreamPool,
		events capturedriver.EventPool,
	) (capturedriver.NativeGraph, error)
}
