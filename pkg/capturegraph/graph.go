package capturegraph

import (
	"errors"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
)

// Sentinel errors returned while building a Graph, mirroring the
// construction-time error set used throughout this codebase's other
// graph-shaped types (empty/duplicate identifiers, edges to unknown
// endpoints, self-loops).
var (
	ErrEmptyNodeID     = errors.New("node ID must not be empty")
	ErrDuplicateNodeID = errors.New("duplicate node ID")
	ErrUnknownNode     = errors.New("unknown node")
	ErrSelfLoop        = errors.New("self-loop")
	ErrGraphHasCycle   = errors.New("graph contains a cycle")
)

// Work is the unary, side-effecting action a node enqueues onto a stream.
// A strategy calls Work at most once per node, per Optimize invocation. A
// non-nil error is always treated as a fatal driver failure by the calling
// strategy.
type Work func(stream capturedriver.Stream) error

// CaptureMeta is the mutable scheduling state a strategy attaches to a
// node for the duration of a single Optimize call. It is zeroed by
// Graph.ResetMeta before every Optimize call, resolving the "is metadata
// zero-initialized between runs" open question in spec.md §9 by never
// relying on the caller to have done so.
type CaptureMeta struct {
	// Level is the node's longest-path distance from the roots.
	Level int
	// Idx is the node's position within its level, in the order the
	// levelizer enumerated that level.
	Idx int
	// Stream is the stream index (0..NumStreams-1) a round-robin
	// strategy assigns this node to. Unused by the sequential strategy.
	Stream int
	// Event is set when at least one successor of this node is assigned
	// to a different stream (round-robin only; always unset for the
	// sequential strategy).
	Event capturedriver.EventHandle
	// Visited is a transient mark used by topo.TopologicalSort.
	Visited bool
}

// Node is an opaque task-graph vertex. Successors and Dependents are
// ordered, and that order is load-bearing: it fixes the deterministic
// output of topo.TopologicalSort and topo.Levelize (spec.md §4.1).
type Node struct {
	id         string
	work       Work
	successors []*Node
	dependents []*Node
	meta       CaptureMeta
}

// ID returns the node's stable identity.
func (n *Node) ID() string { return n.id }

// Work returns the node's work closure.
func (n *Node) Work() Work { return n.work }

// Successors returns the node's successors in stored order. The caller
// must not mutate the returned slice.
func (n *Node) Successors() []*Node { return n.successors }

// Dependents returns the node's dependents (predecessors) in stored
// order. The caller must not mutate the returned slice.
func (n *Node) Dependents() []*Node { return n.dependents }

// Meta returns a pointer to the node's capture metadata so strategies can
// read and write Level/Idx/Event/Visited in place.
func (n *Node) Meta() *CaptureMeta { return &n.meta }

// Graph is a node set with bidirectionally-consistent successor/dependent
// lists. It is built once via AddNode/AddEdge and then treated as
// immutable by every optimizer package: Optimize only ever reads topology
// and writes CaptureMeta.
//
// Graph is not safe for concurrent construction, matching the convention
// of the DAG type this module is grounded on. Once built, concurrent
// Optimize calls against the same Graph are still unsafe (CaptureMeta is
// shared, mutable state) — spec.md §5 requires disjoint Graph instances
// per concurrent call.
type Graph struct {
	nodes []*Node
	byID  map[string]*Node
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{byID: make(map[string]*Node)}
}

// AddNode adds a node with the given id and work closure. Nodes are kept
// in insertion order; that order is the "stored order" spec.md refers to
// for topological-sort determinism and level bucketing.
func (g *Graph) AddNode(id string, work Work) (*Node, error) {
	if id == "" {
		return nil, ErrEmptyNodeID
	}
	if _, exists := g.byID[id]; exists {
		return nil, ErrDuplicateNodeID
	}
	n := &Node{id: id, work: work}
	g.byID[id] = n
	g.nodes = append(g.nodes, n)
	return n, nil
}

// AddEdge records that toID depends on fromID: fromID is a dependent
// (predecessor) of toID, and toID is a successor of fromID. Both
// adjacency lists are updated so the bidirectional-consistency invariant
// (spec.md §3) always holds.
func (g *Graph) AddEdge(fromID, toID string) error {
	from, ok := g.byID[fromID]
	if !ok {
		return ErrUnknownNode
	}
	to, ok := g.byID[toID]
	if !ok {
		return ErrUnknownNode
	}
	if from == to {
		return ErrSelfLoop
	}
	from.successors = append(from.successors, to)
	to.dependents = append(to.dependents, from)
	return nil
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns every node in stored (insertion) order. The caller must
// not mutate the returned slice.
func (g *Graph) Nodes() []*Node { return g.nodes }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Roots returns the nodes with no dependents — the BFS/longest-path
// seeds for topo.Levelize.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, n := range g.nodes {
		if len(n.dependents) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// ResetMeta zeroes every node's CaptureMeta, releasing any event a
// previous Optimize call left attached so a Graph can be reused across
// runs without leaking pool resources.
func (g *Graph) ResetMeta() {
	for _, n := range g.nodes {
		if n.meta.Event.Event != nil {
			n.meta.Event.Event.Release()
		}
		n.meta = CaptureMeta{}
	}
}

// Validate performs a best-effort acyclicity check using three-color DFS.
// spec.md §7 marks cycle detection as optional/debug-only; Optimize never
// calls this automatically; tests call it directly.
func (g *Graph) Validate() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*Node]int, len(g.nodes))

	var hasCycle bool
	var visit func(n *Node)
	visit = func(n *Node) {
		if hasCycle {
			return
		}
		color[n] = gray
		for _, s := range n.successors {
			switch color[s] {
			case white:
				visit(s)
			case gray:
				hasCycle = true
				return
			}
			if hasCycle {
				return
			}
		}
		color[n] = black
	}

	for _, n := range g.nodes {
		if color[n] == white {
			visit(n)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
