// Package server exposes the mastery engine over a JSON HTTP API.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/masterypath/internal/app"
)

// Server is the masterypath HTTP API server.
type Server struct {
	app     *app.App
	router  chi.Router
	logger  *slog.Logger
	version string
	started time.Time
}

// New creates a Server over a wired App.
func New(a *app.App, version string) *Server {
	s := &Server{
		app:     a,
		logger:  a.Logger.With("component", "http"),
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/graph", s.handleGraph)
		r.Post("/decay/run", s.handleDecayRun)
		r.Get("/nodes/{nodeID}/problems", s.handleProblems)

		r.Route("/paths", func(r chi.Router) {
			r.Get("/", s.handleListPaths)
			r.Post("/", s.handleCreatePath)
			r.Get("/{pathID}", s.handleGetPath)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/practice", s.handlePractice)
			r.Get("/tree", s.handleTree)
			r.Get("/review", s.handleReview)
			r.Get("/stats", s.handleStats)
			r.Get("/summary", s.handleSummary)
			r.Get("/heatmap", s.handleHeatmap)
			r.Get("/history", s.handleHistory)
			r.Get("/paths/{pathID}/tree", s.handlePathTree)
			r.Get("/paths/{pathID}/review", s.handlePathReview)
			r.Get("/paths/{pathID}/stats", s.handlePathStats)
		})
	})

	s.router = r
}

// logRequests writes one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := s.app.Store.Ping(r.Context()) == nil
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
