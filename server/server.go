// Package server provides the analysis over HTTP, for editors and other
// tools that don't want to run the command line program.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/rillig/gocase/casetable"
	"github.com/rillig/gocase/emitter"
	"github.com/rillig/gocase/locator"
)

// Server routes the API requests to the analysis packages.
// It has no state besides the router.
type Server struct {
	router *chi.Mux
	logf   func(format string, args ...interface{})
}

// New creates the server. Each request is logged using logf,
// which may be nil.
func New(logf func(format string, args ...interface{})) *Server {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	s := &Server{logf: logf}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.logRequests)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/locate", s.handleLocate)
		r.Post("/emit", s.handleEmit)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logf("%s %s %s: %d in %s", middleware.GetReqID(r.Context()),
			r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// ListenAndServe serves the API on addr until ctx is done,
// then shuts the server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// AnalyzeRequest analyzes guards without a source file.
type AnalyzeRequest struct {
	Params []casetable.Parameter `json:"params"`
	Guards []string              `json:"guards"`
	All    bool                  `json:"all"` // include the infeasible rows
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := casetable.Analyze(req.Params, req.Guards)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "analysis failed", err)
		return
	}
	render.JSON(w, r, res.Report(req.All))
}

// LocateRequest analyzes a function from Go source code.
type LocateRequest struct {
	Filename string `json:"filename"`
	Source   string `json:"source"`
	Func     string `json:"func"`
	All      bool   `json:"all"`
}

type LocateResponse struct {
	Function *locator.Function `json:"function"`
	Table    casetable.Report  `json:"table"`
}

// locate finds and analyzes the function. On failure, it has already
// written the error response.
func (s *Server) locate(w http.ResponseWriter, r *http.Request, req LocateRequest) (*locator.Function, *casetable.Result, bool) {
	switch {
	case req.Source == "":
		respondError(w, r, http.StatusBadRequest, "source is required", nil)
		return nil, nil, false
	case req.Func == "":
		respondError(w, r, http.StatusBadRequest, "func is required", nil)
		return nil, nil, false
	case req.Filename == "":
		req.Filename = "input.go"
	}

	fn, err := locator.Locate(req.Filename, []byte(req.Source), req.Func)
	if errors.Is(err, locator.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "function not found", err)
		return nil, nil, false
	}
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "invalid source", err)
		return nil, nil, false
	}

	res, err := casetable.Analyze(fn.Parameters(), fn.FlatGuards())
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "analysis failed", err)
		return nil, nil, false
	}
	return fn, res, true
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var req LocateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	fn, res, ok := s.locate(w, r, req)
	if !ok {
		return
	}
	render.JSON(w, r, LocateResponse{fn, res.Report(req.All)})
}

// EmitRequest generates tests for a function from Go source code.
type EmitRequest struct {
	LocateRequest
	Samples emitter.Samples `json:"samples"`
}

type EmitResponse struct {
	Code     string            `json:"code,omitempty"`
	Tests    []string          `json:"tests,omitempty"`
	Skipped  int               `json:"skipped"`
	Problems []emitter.Problem `json:"problems,omitempty"`
}

func (s *Server) handleEmit(w http.ResponseWriter, r *http.Request) {
	var req EmitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	fn, res, ok := s.locate(w, r, req.LocateRequest)
	if !ok {
		return
	}

	out, err := emitter.Emit(fn, res, req.Samples)
	var verr *emitter.ValidationError
	if errors.As(err, &verr) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, EmitResponse{Problems: verr.Problems})
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "emit failed", err)
		return
	}
	render.JSON(w, r, EmitResponse{Code: string(out.Code), Tests: out.Tests, Skipped: out.Skipped})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["details"] = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, response)
}
