package dotviz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/kjhansen/streamcapture/pkg/capturegraph"
)

// streamPalette cycles a small set of distinguishable fill colors across
// stream indices so a rendered schedule reads at a glance, regardless of
// NumStreams.
var streamPalette = []string{
	"#8ecae6", "#ffb703", "#90be6d", "#f94144",
	"#c77dff", "#ff9f1c", "#43aa8b", "#f3722c",
}

func streamColor(stream int) string {
	return streamPalette[stream%len(streamPalette)]
}

// ToDOT renders g as a Graphviz digraph. Nodes are grouped into ranks by
// CaptureMeta.Level and colored by CaptureMeta.Stream; dependency edges
// that cross a stream boundary are drawn dashed and labeled "event" to
// mark where the schedule actually pays for synchronization.
func ToDOT(g *capturegraph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph capture {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box style=filled fontname=\"monospace\"];\n")

	levels := make(map[int][]*capturegraph.Node)
	for _, n := range g.Nodes() {
		lvl := n.Meta().Level
		levels[lvl] = append(levels[lvl], n)
	}

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q fillcolor=%q];\n",
			n.ID(),
			fmt.Sprintf("%s\\nstream %d", n.ID(), n.Meta().Stream),
			streamColor(n.Meta().Stream),
		)
	}

	for lvl, nodes := range levels {
		if len(nodes) < 2 {
			continue
		}
		fmt.Fprintf(&buf, "  { rank=same; ")
		for _, n := range nodes {
			fmt.Fprintf(&buf, "%q; ", n.ID())
		}
		buf.WriteString("}\n")
		_ = lvl
	}

	for _, n := range g.Nodes() {
		for _, succ := range n.Successors() {
			crosses := succ.Meta().Stream != n.Meta().Stream
			if crosses {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed label=\"event\"];\n", n.ID(), succ.ID())
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID(), succ.ID())
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders g's DOT representation to SVG bytes using Graphviz's
// layout engine.
func RenderSVG(g *capturegraph.Graph) ([]byte, error) {
	dot := ToDOT(g)

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("dotviz: new graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("dotviz: parse dot: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("dotviz: render svg: %w", err)
	}
	return buf.Bytes(), nil
}
