// Package server exposes the CFG pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz                        liveness probe
//	GET  /cfg/{fileID}                   list functions with a CFG artifact
//	GET  /cfg/{fileID}/{address}         layout of a stored CFG
//	GET  /disassembly/{fileID}/{addr}    stored disassembly
//	POST /layout                         layout of a payload in the body
//
// Layout routes accept ?format=json|dot|svg|png|pdf (default json) and
// ?detailed=true. Every response carries an X-Request-ID header; errors are
// JSON objects of the form {"error": {"code": ..., "message": ...}}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cfgview/pkg/artifacts"
	"github.com/matzehuels/cfgview/pkg/pipeline"
)

// Default limits.
const (
	DefaultMaxBodyBytes    = 16 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr            string
	MaxBodyBytes    int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Options are the base pipeline options of every request. Requests
	// only choose the format and detail level.
	Options pipeline.Options
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  *artifacts.Store
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New creates a server. A nil logger uses log.Default().
func New(runner *pipeline.Runner, store *artifacts.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	s := &Server{
		runner: runner,
		store:  store,
		logger: logger.WithPrefix("http"),
		cfg:    cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/cfg/{fileID}", func(r chi.Router) {
		r.Get("/", s.handleFunctions)
		r.Get("/{address}", s.handleCFG)
	})
	r.Get("/disassembly/{fileID}/{addr}", s.handleDisassembly)
	r.Post("/layout", s.handleLayout)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("NOT_FOUND", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("METHOD_NOT_ALLOWED", "method not allowed"))
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
