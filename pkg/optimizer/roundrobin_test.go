package optimizer_test

import (
	"context"
	"testing"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
	"github.com/kjhansen/streamcapture/pkg/optimizer"
)

func diamondGraph(d *capturedriver.SimDriver) *capturegraph.Graph {
	g := capturegraph.New()
	g.AddNode("root", work(d))
	g.AddNode("b", work(d))
	g.AddNode("c", work(d))
	g.AddNode("join", work(d))
	g.AddEdge("root", "b")
	g.AddEdge("root", "c")
	g.AddEdge("b", "join")
	g.AddEdge("c", "join")
	return g
}

func newPools() (capturedriver.StreamPool, capturedriver.EventPool) {
	return capturedriver.NewStreamPool(capturedriver.NewPerThreadPool()),
		capturedriver.NewEventPool(capturedriver.NewPerThreadPool())
}

func TestNewRoundRobin_rejectsNonPositive(t *testing.T) {
	if _, err := optimizer.NewRoundRobin(0); err == nil {
		t.Fatal("expected error for 0 streams")
	}
	if _, err := optimizer.NewRoundRobin(-1); err == nil {
		t.Fatal("expected error for negative streams")
	}
}

func TestRoundRobin_assignsStreamsByIdxModN(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := diamondGraph(d)
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	native, err := rr.Optimize(context.Background(), g, d, streams, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, _ := g.Node("root")
	b, _ := g.Node("b")
	c, _ := g.Node("c")
	join, _ := g.Node("join")

	if root.Meta().Stream != 0 {
		t.Fatalf("root.Stream = %d, want 0", root.Meta().Stream)
	}
	if b.Meta().Stream != 0 {
		t.Fatalf("b.Stream = %d, want 0", b.Meta().Stream)
	}
	if c.Meta().Stream != 1 {
		t.Fatalf("c.Stream = %d, want 1", c.Meta().Stream)
	}
	if join.Meta().Stream != 0 {
		t.Fatalf("join.Stream = %d, want 0", join.Meta().Stream)
	}

	if !c.Meta().Event.Recorded() {
		t.Fatal("c should have recorded an event: its successor join is on a different stream")
	}
	if b.Meta().Event.Recorded() {
		t.Fatal("b should not have recorded an event: its only successor join shares its stream")
	}

	sg, ok := native.Handle.(*capturedriver.SimGraph)
	if !ok {
		t.Fatalf("native.Handle is %T, want *SimGraph", native.Handle)
	}

	var waits, records, workOps int
	for _, op := range sg.Ops {
		switch op.Kind {
		case capturedriver.OpStreamWait:
			waits++
		case capturedriver.OpRecordEvent:
			records++
		case capturedriver.OpWork:
			workOps++
		}
	}
	if workOps != 4 {
		t.Fatalf("got %d work ops, want 4", workOps)
	}
	if records == 0 {
		t.Fatal("expected at least one recorded event for the cross-stream edge")
	}
	if waits == 0 {
		t.Fatal("expected at least one stream-wait for the cross-stream edge")
	}
}

func TestRoundRobin_singleStreamBehavesLikeSequential(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := diamondGraph(d)
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	native, err := rr.Optimize(context.Background(), g, d, streams, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sg := native.Handle.(*capturedriver.SimGraph)
	for _, op := range sg.Ops {
		if op.Kind != capturedriver.OpWork {
			t.Fatalf("with a single stream, no synchronization ops should be needed, got %v", op.Kind)
		}
		if op.Stream != 0 {
			t.Fatalf("op on stream %d, want 0", op.Stream)
		}
	}
}

func TestRoundRobin_driverFailurePropagates(t *testing.T) {
	d := capturedriver.NewSimDriver()
	d.FailOn = "work"
	g := diamondGraph(d)
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rr.Optimize(context.Background(), g, d, streams, events); err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestRoundRobin_name(t *testing.T) {
	rr, _ := optimizer.NewRoundRobin(2)
	if got := rr.Name(); got != "round-robin" {
		t.Fatalf("Name() = %q, want %q", got, "round-robin")
	}
}

// countOps tallies a SimGraph's ops by kind.
func countOps(sg *capturedriver.SimGraph) map[capturedriver.OpKind]int {
	counts := make(map[capturedriver.OpKind]int)
	for _, op := range sg.Ops {
		counts[op.Kind]++
	}
	return counts
}

func TestRoundRobin_independentRootsJoinBeforeWork(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := capturegraph.New()
	g.AddNode("a", work(d))
	g.AddNode("c", work(d))
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	native, err := rr.Optimize(context.Background(), g, d, streams, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sg := native.Handle.(*capturedriver.SimGraph)
	counts := countOps(sg)
	if counts[capturedriver.OpWork] != 2 {
		t.Fatalf("got %d work ops, want 2", counts[capturedriver.OpWork])
	}
	if counts[capturedriver.OpRecordEvent] == 0 {
		t.Fatal("expected the fork event to be recorded so stream 1 can join the capture")
	}
	if counts[capturedriver.OpStreamWait] == 0 {
		t.Fatal("expected stream 1 to wait on the fork event before doing any work")
	}
}

func TestRoundRobin_fanoutRootsAcrossManyStreams(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := capturegraph.New()
	for _, id := range []string{"r0", "r1", "r2", "r3"} {
		g.AddNode(id, work(d))
	}
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rr.Optimize(context.Background(), g, d, streams, events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoundRobin_fanoutFaninDemoGraph(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := capturegraph.New()
	g.AddNode("sink", work(d))
	for _, id := range []string{"w1", "w2", "w3", "w4"} {
		g.AddNode(id, work(d))
		g.AddEdge(id, "sink")
	}
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rr.Optimize(context.Background(), g, d, streams, events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoundRobin_singleNodeStillJoinsAllStreams(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := capturegraph.New()
	g.AddNode("a", work(d))
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	native, err := rr.Optimize(context.Background(), g, d, streams, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sg := native.Handle.(*capturedriver.SimGraph)
	counts := countOps(sg)
	// 3 fork waits (streams 1..3 each wait on the fork event to join the
	// capture), plus a join event recorded on each of streams 1..3 and
	// awaited on stream 0.
	if counts[capturedriver.OpStreamWait] < 3 {
		t.Fatalf("got %d stream waits, want at least 3 (one join per idle stream)", counts[capturedriver.OpStreamWait])
	}
}

func TestRoundRobin_emptyGraphStillEmitsForkAndJoin(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := capturegraph.New()
	streams, events := newPools()

	rr, err := optimizer.NewRoundRobin(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	native, err := rr.Optimize(context.Background(), g, d, streams, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sg := native.Handle.(*capturedriver.SimGraph)
	counts := countOps(sg)
	if counts[capturedriver.OpRecordEvent] < 3 {
		t.Fatalf("got %d recorded events, want at least 3 (fork + 2 joins)", counts[capturedriver.OpRecordEvent])
	}
	if counts[capturedriver.OpStreamWait] < 4 {
		t.Fatalf("got %d stream waits, want at least 4 (2 fork waits + 2 join waits)", counts[capturedriver.OpStreamWait])
	}
}
