// Package httpapi exposes the capture optimizer over HTTP for tooling
// that isn't the CLI: POST /optimize accepts a JSON graph description and
// strategy, runs the optimizer, and returns the resulting schedule plan;
// GET /healthz reports liveness and GET /runs lists recent ledger entries.
package httpapi

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kjhansen/streamcapture/internal/config"
	"github.com/kjhansen/streamcapture/pkg/ledger"
	"github.com/kjhansen/streamcapture/pkg/observability"
	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

// Server holds the dependencies shared by every handler.
type Server struct {
	cfg    config.Config
	cache  schedcache.Cache
	ledger ledger.Ledger
	logger *log.Logger
	router chi.Router
}

// NewServer builds a chi router wired to the given cache, ledger, and
// logger. cache and ledger may be backed by memory, Redis, or MongoDB
// per cfg; the server itself does not care which.
func NewServer(cfg config.Config, cache schedcache.Cache, led ledger.Ledger, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, cache: cache, ledger: led, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestHooksMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/optimize", s.handleOptimize)
	r.Get("/runs", s.handleRecentRuns)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestHooksMiddleware drives observability.HTTPHooks around every
// request, independent of any specific metrics backend.
func (s *Server) requestHooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
