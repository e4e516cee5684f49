// Package api exposes the analysis pipeline over HTTP.
//
// The server wraps a pipeline.Runner and an archive.Store behind a
// small JSON API:
//
//	POST /v1/populate   run the full pipeline with placement, archive
//	                    the run, and return it with the populated grid
//	POST /v1/analyze    build graph views and metrics for a level
//	GET  /v1/runs       list archived runs, newest first
//	GET  /v1/runs/{id}  fetch one archived run
//	GET  /healthz       liveness probe with build version
//
// Request bodies are pipeline.Options in JSON form. Levels arrive
// either inline (grid + genome) or as a map name resolved against the
// server's configured input directory; requests may not pick their own
// input_dir. Errors are rendered as JSON with the structured code from
// pkg/errors and a status derived from the code family.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Hanteus/ProjectArena/pkg/archive"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// Config carries the server policy knobs.
type Config struct {
	// InputDir is the directory searched for named map pairs. Empty
	// uses mapio.DefaultInputDir.
	InputDir string

	// RunTTL is the archive retention for runs recorded by the
	// populate endpoint. Zero uses archive.DefaultTTL.
	RunTTL time.Duration
}

// Server routes API requests to a pipeline runner and a run archive.
type Server struct {
	runner   *pipeline.Runner
	store    archive.Store
	logger   *log.Logger
	inputDir string
	ttl      time.Duration
	router   chi.Router
}

// NewServer builds a server around the given runner and archive. A nil
// logger discards output, and a nil runner gets a default one without
// caching. A nil store disables run retention: populate still returns
// the run document, but the runs endpoints act as an empty archive.
func NewServer(runner *pipeline.Runner, store archive.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if cfg.InputDir == "" {
		cfg.InputDir = mapio.DefaultInputDir
	}

	s := &Server{
		runner:   runner,
		store:    store,
		logger:   logger,
		inputDir: cfg.InputDir,
		ttl:      cfg.RunTTL,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/populate", s.handlePopulate)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, errs.New(errs.ErrCodeNotFound, "no such endpoint"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: errorDetail{
			Code:    string(errs.ErrCodeInvalidInput),
			Message: "method " + req.Method + " is not allowed here",
		}})
	})
	return r
}

// ListenAndServe serves the API on addr until the context is canceled,
// then shuts down gracefully with a five second drain window.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("api listening", "addr", addr)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
