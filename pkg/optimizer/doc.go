// Package optimizer implements the capture scheduling strategies: given a
// capturegraph.Graph and a capturedriver.DriverOps, a Strategy decides
// which streams each node's Work runs on and which cross-stream
// synchronization events are necessary, then drives the actual capture
// through BeginCapture/EndCapture.
//
// Sequential runs every node on a single acquired stream, in topological
// order, with no cross-stream synchronization. RoundRobin distributes
// nodes across N streams by level and by position within a level,
// inserting events only where a dependency actually crosses a stream
// boundary.
package optimizer
