package optimizer_test

import (
	"context"
	"testing"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
	"github.com/kjhansen/streamcapture/pkg/optimizer"
)

func work(d *capturedriver.SimDriver) capturegraph.Work {
	return func(s capturedriver.Stream) error {
		return d.Enqueue(context.Background(), s)
	}
}

func chainGraph(d *capturedriver.SimDriver) *capturegraph.Graph {
	g := capturegraph.New()
	g.AddNode("a", work(d))
	g.AddNode("b", work(d))
	g.AddNode("c", work(d))
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	return g
}

func TestSequential_runsEveryNodeOnOneStream(t *testing.T) {
	d := capturedriver.NewSimDriver()
	g := chainGraph(d)

	streamPool := capturedriver.NewStreamPool(capturedriver.NewPerThreadPool())
	eventPool := capturedriver.NewEventPool(capturedriver.NewPerThreadPool())

	native, err := optimizer.Sequential{}.Optimize(context.Background(), g, d, streamPool, eventPool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sg, ok := native.Handle.(*capturedriver.SimGraph)
	if !ok {
		t.Fatalf("native.Handle is %T, want *SimGraph", native.Handle)
	}
	if len(sg.Ops) != 3 {
		t.Fatalf("got %d ops, want 3", len(sg.Ops))
	}
	for _, op := range sg.Ops {
		if op.Stream != 0 {
			t.Fatalf("op on stream %d, want all ops on stream 0", op.Stream)
		}
		if op.Kind != capturedriver.OpWork {
			t.Fatalf("op kind %v, want OpWork", op.Kind)
		}
	}
}

func TestSequential_driverFailurePropagates(t *testing.T) {
	d := capturedriver.NewSimDriver()
	d.FailOn = "work"
	g := chainGraph(d)

	streamPool := capturedriver.NewStreamPool(capturedriver.NewPerThreadPool())
	eventPool := capturedriver.NewEventPool(capturedriver.NewPerThreadPool())

	_, err := optimizer.Sequential{}.Optimize(context.Background(), g, d, streamPool, eventPool)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestSequential_name(t *testing.T) {
	if got := (optimizer.Sequential{}).Name(); got != "sequential" {
		t.Fatalf("Name() = %q, want %q", got, "sequential")
	}
}
