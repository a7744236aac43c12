// Package topo implements the two topology passes every optimizer
// strategy relies on: a deterministic topological sort, and a longest-path
// levelization used to assign nodes to capture levels for round-robin
// stream fan-out.
//
// Both passes read a capturegraph.Graph without mutating its edge sets;
// TopologicalSort does use each node's CaptureMeta.Visited scratch field,
// so callers must call Graph.ResetMeta before a fresh pass if the graph
// was previously visited.
package topo
