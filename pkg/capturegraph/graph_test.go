package capturegraph_test

import (
	"fmt"
	"testing"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
)

func noop(capturedriver.Stream) error { return nil }

func ExampleGraph_basic() {
	g := capturegraph.New()
	g.AddNode("a", noop)
	g.AddNode("b", noop)
	g.AddEdge("a", "b")

	a, _ := g.Node("a")
	b, _ := g.Node("b")
	fmt.Println(len(a.Successors()), len(a.Dependents()))
	fmt.Println(len(b.Successors()), len(b.Dependents()))
	// Output:
	// 1 0
	// 0 1
}

func ExampleGraph_Roots() {
	g := capturegraph.New()
	g.AddNode("a", noop)
	g.AddNode("b", noop)
	g.AddNode("c", noop)
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")

	for _, n := range g.Roots() {
		fmt.Println(n.ID())
	}
	// Output:
	// a
	// b
}

func TestAddNode_duplicate(t *testing.T) {
	g := capturegraph.New()
	if _, err := g.AddNode("a", noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.AddNode("a", noop); err != capturegraph.ErrDuplicateNodeID {
		t.Fatalf("got %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddNode_empty(t *testing.T) {
	g := capturegraph.New()
	if _, err := g.AddNode("", noop); err != capturegraph.ErrEmptyNodeID {
		t.Fatalf("got %v, want ErrEmptyNodeID", err)
	}
}

func TestAddEdge_unknownNode(t *testing.T) {
	g := capturegraph.New()
	g.AddNode("a", noop)
	if err := g.AddEdge("a", "missing"); err != capturegraph.ErrUnknownNode {
		t.Fatalf("got %v, want ErrUnknownNode", err)
	}
	if err := g.AddEdge("missing", "a"); err != capturegraph.ErrUnknownNode {
		t.Fatalf("got %v, want ErrUnknownNode", err)
	}
}

func TestAddEdge_selfLoop(t *testing.T) {
	g := capturegraph.New()
	g.AddNode("a", noop)
	if err := g.AddEdge("a", "a"); err != capturegraph.ErrSelfLoop {
		t.Fatalf("got %v, want ErrSelfLoop", err)
	}
}

func TestValidate_cycle(t *testing.T) {
	g := capturegraph.New()
	g.AddNode("a", noop)
	g.AddNode("b", noop)
	g.AddNode("c", noop)
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	if err := g.Validate(); err != capturegraph.ErrGraphHasCycle {
		t.Fatalf("got %v, want ErrGraphHasCycle", err)
	}
}

func TestValidate_acyclic(t *testing.T) {
	g := capturegraph.New()
	g.AddNode("a", noop)
	g.AddNode("b", noop)
	g.AddEdge("a", "b")

	if err := g.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResetMeta(t *testing.T) {
	g := capturegraph.New()
	n, _ := g.AddNode("a", noop)
	n.Meta().Level = 3
	n.Meta().Visited = true

	g.ResetMeta()

	if n.Meta().Level != 0 || n.Meta().Visited {
		t.Fatalf("ResetMeta did not zero metadata: %+v", n.Meta())
	}
}
