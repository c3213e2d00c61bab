package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/buildinfo"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/observability"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/store"
)

const (
	// DefaultSolveTimeout bounds a single solve request.
	DefaultSolveTimeout = 30 * time.Second

	// maxBodyBytes bounds a request body.
	maxBodyBytes = 8 << 20

	defaultListLimit = 20
	maxListLimit     = 500
)

// Server is the HTTP API. Runs are always recorded, so the runner must have
// a store.
type Server struct {
	runner       *pipeline.Runner
	logger       *log.Logger
	solveTimeout time.Duration
	router       chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSolveTimeout overrides DefaultSolveTimeout.
func WithSolveTimeout(d time.Duration) Option {
	return func(s *Server) { s.solveTimeout = d }
}

// New creates a server over runner. A runner without a store gets an
// in-memory one.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if runner.Store == nil {
		runner.Store = store.NewMemoryStore()
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:       runner,
		logger:       logger,
		solveTimeout: DefaultSolveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/svg", s.handleRunSVG)
	})
	return r
}

// instrument reports requests to the HTTP hooks using the matched route.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	pipeline.Options
	Boxes [][]int `json:"boxes"`
}

// SolveResponse is the body returned by POST /v1/solve.
type SolveResponse struct {
	ID         string    `json:"id"`
	Algorithm  string    `json:"algorithm"`
	Height     int       `json:"height"`
	Boxes      []box.Box `json:"boxes"`
	Cached     bool      `json:"cached"`
	DurationMS int64     `json:"duration_ms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Short()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "decode request: %v", err))
		return
	}

	boxes, err := toBoxes(req.Boxes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.solveTimeout)
	defer cancel()

	opts := req.Options
	opts.Record = true
	opts.Logger = s.logger
	res, err := s.runner.Solve(ctx, boxes, opts)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "solve exceeded %s", s.solveTimeout)
		}
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, SolveResponse{
		ID:         res.Run.ID,
		Algorithm:  string(res.Algorithm),
		Height:     res.Height,
		Boxes:      res.Boxes,
		Cached:     res.CacheHit,
		DurationMS: res.Run.DurationMS,
	})
}

func toBoxes(triples [][]int) ([]box.Box, error) {
	boxes := make([]box.Box, len(triples))
	for i, t := range triples {
		if len(t) != 3 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "box %d: want [height, width, depth], got %d values", i, len(t))
		}
		boxes[i] = box.New(t[0], t[1], t[2])
	}
	return boxes, nil
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be between 1 and %d", maxListLimit))
			return
		}
		limit = n
	}

	runs, err := s.runner.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runner.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunSVG(w http.ResponseWriter, r *http.Request) {
	run, err := s.runner.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	labels := r.URL.Query().Get("labels") != "false"
	svg, err := s.runner.Render(r.Context(), run.Boxes, render.Options{Labels: labels})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	route := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		route = rc.RoutePattern()
	}
	observability.HTTP().OnError(r.Context(), r.Method, route, err)
	s.writeJSON(w, status, toResponse(err, status))
}
