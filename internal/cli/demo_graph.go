package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
	"github.com/kjhansen/streamcapture/pkg/errors"
)

// demoNodeWork returns a Work closure that simply enqueues the node on
// whatever stream the strategy assigns it to, on the given driver.
func demoNodeWork(d *capturedriver.SimDriver) capturegraph.Work {
	return func(s capturedriver.Stream) error {
		return d.Enqueue(context.Background(), s)
	}
}

// demoGraph builds one of the named demo task graphs: "chain", "diamond",
// "fanout", or "fanin".
func demoGraph(name string, d *capturedriver.SimDriver) (*capturegraph.Graph, error) {
	g := capturegraph.New()
	work := demoNodeWork(d)

	switch name {
	case "chain":
		for _, id := range []string{"a", "b", "c", "d"} {
			if _, err := g.AddNode(id, work); err != nil {
				return nil, err
			}
		}
		edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}}
		for _, e := range edges {
			if err := g.AddEdge(e[0], e[1]); err != nil {
				return nil, err
			}
		}
	case "diamond":
		for _, id := range []string{"root", "left", "right", "join"} {
			if _, err := g.AddNode(id, work); err != nil {
				return nil, err
			}
		}
		edges := [][2]string{{"root", "left"}, {"root", "right"}, {"left", "join"}, {"right", "join"}}
		for _, e := range edges {
			if err := g.AddEdge(e[0], e[1]); err != nil {
				return nil, err
			}
		}
	case "fanout":
		for _, id := range []string{"root", "w1", "w2", "w3", "w4"} {
			if _, err := g.AddNode(id, work); err != nil {
				return nil, err
			}
		}
		for _, id := range []string{"w1", "w2", "w3", "w4"} {
			if err := g.AddEdge("root", id); err != nil {
				return nil, err
			}
		}
	case "fanin":
		for _, id := range []string{"w1", "w2", "w3", "w4", "sink"} {
			if _, err := g.AddNode(id, work); err != nil {
				return nil, err
			}
		}
		for _, id := range []string{"w1", "w2", "w3", "w4"} {
			if err := g.AddEdge(id, "sink"); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown demo graph %q (want chain, diamond, fanout, or fanin)", name)
	}
	return g, nil
}

// graphDescription is the JSON wire format accepted by the optimize
// command's --file flag and by the HTTP debug API.
type graphDescription struct {
	Nodes []string    `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

// decodeGraph parses a graphDescription from r and builds a Graph whose
// nodes enqueue work on d.
func decodeGraph(r io.Reader, d *capturedriver.SimDriver) (*capturegraph.Graph, error) {
	var desc graphDescription
	if err := json.NewDecoder(r).Decode(&desc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "decode graph description")
	}
	return buildGraph(desc, d)
}

func buildGraph(desc graphDescription, d *capturedriver.SimDriver) (*capturegraph.Graph, error) {
	g := capturegraph.New()
	work := demoNodeWork(d)
	for _, id := range desc.Nodes {
		if _, err := g.AddNode(id, work); err != nil {
			return nil, fmt.Errorf("add node %q: %w", id, err)
		}
	}
	for _, e := range desc.Edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add edge %q->%q: %w", e[0], e[1], err)
		}
	}
	return g, nil
}
