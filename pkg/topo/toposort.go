package topo

import "github.com/kjhansen/streamcapture/pkg/capturegraph"

// TopologicalSort returns the graph's nodes in an order that respects every
// dependency edge: a node always appears after all of its dependents
// (predecessors).
//
// The algorithm is the iterative two-pass DFS used throughout this
// module's capture strategies: each node is pushed once, its unvisited
// successors are visited depth-first, and the node itself is only emitted
// once every successor beneath it has already been emitted (post-order).
// Reversing that post-order yields the topological order. Iterating roots
// in Graph.Nodes order, rather than recursing from arbitrary entry points,
// is what makes the result deterministic and reproducible across runs on
// the same Graph.
//
// TopologicalSort marks CaptureMeta.Visited on every node it visits;
// callers must call Graph.ResetMeta before invoking it on a graph that may
// carry stale marks from a previous pass.
func TopologicalSort(g *capturegraph.Graph) []*capturegraph.Node {
	order := make([]*capturegraph.Node, 0, g.NodeCount())

	type frame struct {
		node *capturegraph.Node
		idx  int
	}

	for _, start := range g.Roots() {
		if start.Meta().Visited {
			continue
		}
		start.Meta().Visited = true
		stack := []*frame{{node: start}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			succ := top.node.Successors()
			if top.idx < len(succ) {
				child := succ[top.idx]
				top.idx++
				if !child.Meta().Visited {
					child.Meta().Visited = true
					stack = append(stack, &frame{node: child})
				}
				continue
			}
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
