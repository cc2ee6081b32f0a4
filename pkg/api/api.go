// Package api serves semigroup enumerations over HTTP.
//
// The server exposes a small JSON API: POST a generator specification
// to start an enumeration, read back the recorded run, and fetch
// rendered Cayley graphs for finished runs. Runs persist in a
// [store.Store]; summaries and rendered artifacts are cached by
// generator set, so repeated requests for the same semigroup never
// enumerate twice.
//
// Endpoints:
//
//	POST   /api/v1/runs            start an enumeration
//	GET    /api/v1/runs            list recorded runs
//	GET    /api/v1/runs/{id}       fetch one run
//	DELETE /api/v1/runs/{id}       delete a run
//	GET    /api/v1/runs/{id}/graph rendered Cayley graph (side=, format=)
//	GET    /healthz                liveness probe
//	GET    /version                build information
package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/semigroups/pkg/cache"
	"github.com/matzehuels/semigroups/pkg/store"
)

// DefaultTimeout bounds a single enumeration request. Clients may ask
// for less via timeout_ms but never for more.
const DefaultTimeout = 30 * time.Second

// Server handles API requests.
type Server struct {
	store     store.Store
	cache     cache.Cache
	keyer     cache.Keyer
	logger    *log.Logger
	timeout   time.Duration
	batchSize int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTimeout sets the maximum duration of one enumeration request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithKeyer overrides the cache keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(s *Server) { s.keyer = k }
}

// WithBatchSize sets the engines' batch size, mainly for tests.
func WithBatchSize(n int) Option {
	return func(s *Server) { s.batchSize = n }
}

// NewServer creates a server over the given store and cache.
func NewServer(st store.Store, c cache.Cache, opts ...Option) *Server {
	s := &Server{
		store:   st,
		cache:   c,
		keyer:   cache.NewDefaultKeyer(),
		logger:  log.New(os.Stderr),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/runs", s.handleCreateRun)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
		r.Get("/runs/{id}/graph", s.handleGetGraph)
	})

	return r
}

// ListenAndServe runs the server on addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
