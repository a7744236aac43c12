// Package pkg provides the core libraries behind streamcapture's capture
// optimizer: given a task graph whose nodes enqueue driver work, it
// replays that graph into one or more capture-mode command streams,
// inserting the cross-stream synchronization needed to honor the
// graph's declared dependencies.
//
// # Overview
//
// The capture optimizer models CUDA-style stream capture: a "stream" is
// a FIFO command queue, and while a stream is in capture mode, commands
// issued to it are recorded into a graph rather than executed
// immediately. A node on one stream can synchronize with a node on
// another by recording an event after itself and having the dependent
// stream wait on that event before continuing — this is the only
// mechanism by which two streams serialize against each other.
//
// The pkg directory is organized into:
//
//  1. [capturegraph] - the input task graph and its per-node capture metadata
//  2. [topo] - topological sort and longest-path levelization
//  3. [capturedriver] - driver-facing abstractions (Stream, Event, pools, DriverOps) and a SimDriver reference implementation
//  4. [optimizer] - the Sequential and RoundRobin scheduling strategies
//  5. [schedcache] - a cache for computed schedules, keyed by graph shape and strategy
//  6. [ledger] - a durable record of completed optimize runs
//  7. [dotviz] - Graphviz rendering of a scheduled graph
//  8. [observability] - hook interfaces for optimize/cache/HTTP events
//  9. [errors] - structured, coded errors shared across these packages
//
// # Architecture
//
// The typical data flow:
//
//	Task graph (capturegraph.Graph)
//	         ↓
//	    [topo] package (topological order, longest-path levelization)
//	         ↓
//	    [optimizer] package (Sequential or RoundRobin strategy)
//	         ↓
//	    capturedriver.NativeGraph (opaque, caller-owned)
//
// # Quick Start
//
// Build a graph, pick a strategy, and optimize it against a driver:
//
//	g := capturegraph.New()
//	g.AddNode("a", func(s capturedriver.Stream) error { return driver.Enqueue(ctx, s) })
//	g.AddNode("b", func(s capturedriver.Stream) error { return driver.Enqueue(ctx, s) })
//	g.AddEdge("a", "b")
//
//	strategy, _ := optimizer.NewRoundRobin(4)
//	native, err := strategy.Optimize(ctx, g, driver, streamPool, eventPool)
//
// [capturegraph]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/capturegraph
// [topo]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/topo
// [capturedriver]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/capturedriver
// [optimizer]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/optimizer
// [schedcache]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/schedcache
// [ledger]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/ledger
// [dotviz]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/dotviz
// [observability]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/observability
// [errors]: https://pkg.go.dev/github.com/kjhansen/streamcapture/pkg/errors
package pkg
