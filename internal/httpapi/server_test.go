package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/kjhansen/streamcapture/internal/config"
	"github.com/kjhansen/streamcapture/internal/httpapi"
	"github.com/kjhansen/streamcapture/pkg/ledger"
	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

func newTestServer() *httpapi.Server {
	cfg := config.Default()
	logger := log.New(io.Discard)
	return httpapi.NewServer(cfg, schedcache.NewNullCache(), ledger.NewMemoryLedger(0), logger)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestOptimize_diamondRoundRobin(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(map[string]any{
		"nodes":       []string{"root", "left", "right", "join"},
		"edges":       [][2]string{{"root", "left"}, {"root", "right"}, {"left", "join"}, {"right", "join"}},
		"strategy":    "round-robin",
		"num_streams": 2,
	})

	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var plan schedcache.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if plan.Strategy != "round-robin" {
		t.Fatalf("plan.Strategy = %q, want round-robin", plan.Strategy)
	}
	if len(plan.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(plan.Nodes))
	}
}

func TestOptimize_unknownStrategy(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(map[string]any{
		"nodes":    []string{"a"},
		"strategy": "bogus",
	})

	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecentRuns_afterOptimize(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(map[string]any{
		"nodes":    []string{"a"},
		"strategy": "sequential",
	})
	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	srv.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
