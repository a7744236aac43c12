package topo

import "github.com/kjhansen/streamcapture/pkg/capturegraph"

// Levelize assigns every node a CaptureMeta.Level equal to its longest-path
// distance from the graph's roots, then groups nodes by level, returning
// one slice per level indexed 0..maxLevel.
//
// Levels are computed in topological order so each node's level is the max
// over its dependents' levels plus one; this is the longest-path rule the
// original capture optimizer's BFS got wrong by taking the level from
// whichever predecessor happened to be discovered first rather than the
// one furthest from the roots. A node fed by a long chain on one input and
// a short chain on another must wait for the long chain, so its level has
// to reflect the longest incoming path.
//
// Each level's nodes are listed in Graph.Nodes (stored) order, not
// topological order, and CaptureMeta.Idx is set to the node's position
// within that per-level bucket. This fixes the round-robin strategy's
// `idx mod NumStreams` stream assignment to the order nodes were added to
// the graph, independent of how topological ties happen to be broken.
//
// Levelize calls TopologicalSort internally and so shares its requirement
// that CaptureMeta.Visited be fresh; call Graph.ResetMeta first. The
// topological order used to compute levels is returned alongside the
// level buckets so callers don't need to (incorrectly) call
// TopologicalSort a second time against a graph whose Visited marks are
// now all set.
func Levelize(g *capturegraph.Graph) (levels [][]*capturegraph.Node, order []*capturegraph.Node) {
	order = TopologicalSort(g)

	maxLevel := 0
	for _, n := range order {
		level := 0
		for _, dep := range n.Dependents() {
			if l := dep.Meta().Level + 1; l > level {
				level = l
			}
		}
		n.Meta().Level = level
		if level > maxLevel {
			maxLevel = level
		}
	}

	levels = make([][]*capturegraph.Node, maxLevel+1)
	for _, n := range g.Nodes() {
		lvl := n.Meta().Level
		n.Meta().Idx = len(levels[lvl])
		levels[lvl] = append(levels[lvl], n)
	}
	return levels, order
}
