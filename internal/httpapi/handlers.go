package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
	"github.com/kjhansen/streamcapture/pkg/errors"
	"github.com/kjhansen/streamcapture/pkg/ledger"
	"github.com/kjhansen/streamcapture/pkg/observability"
	"github.com/kjhansen/streamcapture/pkg/optimizer"
	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// optimizeRequest is the JSON body accepted by POST /optimize.
type optimizeRequest struct {
	Nodes      []string    `json:"nodes"`
	Edges      [][2]string `json:"edges"`
	Strategy   string      `json:"strategy"`
	NumStreams int         `json:"num_streams"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidArgument, err, "decode request body"))
		return
	}
	if req.Strategy == "" {
		req.Strategy = s.cfg.Strategy
	}
	if req.NumStreams <= 0 {
		req.NumStreams = s.cfg.NumStreams
	}

	driver := capturedriver.NewSimDriver().WithLatency(time.Duration(s.cfg.DriverLatencyMS) * time.Millisecond)
	g, err := s.buildGraph(req, driver)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	strat, err := s.buildStrategy(req.Strategy, req.NumStreams)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	start := time.Now()
	streamPool := capturedriver.NewStreamPool(capturedriver.NewPerThreadPool())
	eventPool := capturedriver.NewEventPool(capturedriver.NewPerThreadPool())
	_, runErr := strat.Optimize(ctx, g, driver, streamPool, eventPool)
	completed := time.Now()

	plan := schedcache.BuildPlan(strat.Name(), g)
	rec := ledger.NewRunRecord(strat.Name(), g.NodeCount(), req.NumStreams, plan, start, completed, runErr)
	if lerr := s.ledger.Record(ctx, rec); lerr != nil {
		s.logger.Warnf("failed to record run: %v", lerr)
	}

	if runErr != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, runErr)
		return
	}

	cacheKey := schedcache.GraphKey(fmt.Sprintf("%s:%d", strat.Name(), req.NumStreams), g)
	if cacheKey != "" {
		if cerr := s.cache.Set(ctx, cacheKey, plan, time.Hour); cerr != nil {
			s.logger.Warnf("failed to cache schedule: %v", cerr)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(plan)
}

func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.Recent(r.Context(), 20)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func (s *Server) buildGraph(req optimizeRequest, d *capturedriver.SimDriver) (*capturegraph.Graph, error) {
	g := capturegraph.New()
	work := func(stream capturedriver.Stream) error {
		return d.Enqueue(context.Background(), stream)
	}
	for _, id := range req.Nodes {
		if _, err := g.AddNode(id, work); err != nil {
			return nil, err
		}
	}
	for _, e := range req.Edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (s *Server) buildStrategy(name string, numStreams int) (optimizer.Strategy, error) {
	switch name {
	case "sequential":
		return optimizer.Sequential{}, nil
	case "round-robin":
		return optimizer.NewRoundRobin(numStreams)
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown strategy %q", name)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": errors.UserMessage(err),
	})
}
