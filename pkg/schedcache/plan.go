package schedcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/kjhansen/streamcapture/pkg/capturegraph"
)

// NodePlan is one node's schedule assignment, as left on CaptureMeta by a
// Strategy after Optimize returns.
type NodePlan struct {
	ID       string `json:"id"`
	Level    int    `json:"level"`
	Idx      int    `json:"idx"`
	Stream   int    `json:"stream"`
	HasEvent bool   `json:"has_event"`
}

// Plan is the serializable result of scheduling a graph: enough to
// reconstruct every node's Level/Idx/Stream/event-presence without
// rerunning topo.Levelize, but nothing about the driver-side capture
// itself.
type Plan struct {
	Strategy string     `json:"strategy"`
	Nodes    []NodePlan `json:"nodes"`
}

// BuildPlan reads the CaptureMeta a Strategy left on g after a successful
// Optimize call and captures it as a Plan, in Graph.Nodes (stored) order.
func BuildPlan(strategy string, g *capturegraph.Graph) Plan {
	nodes := g.Nodes()
	plan := Plan{Strategy: strategy, Nodes: make([]NodePlan, len(nodes))}
	for i, n := range nodes {
		m := n.Meta()
		plan.Nodes[i] = NodePlan{
			ID:       n.ID(),
			Level:    m.Level,
			Idx:      m.Idx,
			Stream:   m.Stream,
			HasEvent: m.Event.Recorded(),
		}
	}
	return plan
}

// GraphKey derives a cache key from the graph's shape (node IDs and
// edges, independent of CaptureMeta) and the strategy configuration that
// will schedule it, so two calls with an identical graph and identical
// strategy config always hit the same entry.
//
// The hash mirrors the length-prefixed field hashing this codebase uses
// elsewhere for content-addressed keys: every variable-length field is
// JSON-marshaled as a single unit rather than concatenated as raw bytes,
// so no delimiter collision between fields can alias two different
// graphs onto the same key.
func GraphKey(strategy string, g *capturegraph.Graph) string {
	type edge struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	var edges []edge
	for _, n := range g.Nodes() {
		for _, succ := range n.Successors() {
			edges = append(edges, edge{From: n.ID(), To: succ.ID()})
		}
	}

	ids := make([]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID())
	}

	payload := struct {
		Strategy string   `json:"strategy"`
		NodeIDs  []string `json:"node_ids"`
		Edges    []edge   `json:"edges"`
	}{Strategy: strategy, NodeIDs: ids, Edges: edges}

	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("plan:%s", hex.EncodeToString(sum[:]))
}
