// Package api provides engramd's HTTP surface: a chi router over the
// internal/app Engine exposing the queue, review, session, and stats
// operations as JSON endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/engramd/engram/internal/app"
)

// Server is engramd's HTTP API server.
type Server struct {
	engine         *app.Engine
	metricsEnabled bool
}

// NewServer creates a new API server over engine.
func NewServer(engine *app.Engine) *Server {
	return &Server{engine: engine}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": "0.1.0"})
	})

	r.Route("/api/queue", func(r chi.Router) {
		r.Get("/", s.handleQueue)
		r.Get("/next", s.handleQueueNext)
		r.Get("/due", s.handleQueueDue)
		r.Get("/documents/due", s.handleQueueDocumentsDue)
	})

	r.Route("/api/items/{id}", func(r chi.Router) {
		r.Get("/preview", s.handleItemPreview)
		r.Post("/review", s.handleItemReview)
	})

	r.Route("/api/documents/{id}", func(r chi.Router) {
		r.Post("/review", s.handleDocumentReview)
	})

	r.Route("/api/extracts/{id}", func(r chi.Router) {
		r.Post("/review", s.handleExtractReview)
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleSessionStart)
		r.Post("/{id}/end", s.handleSessionEnd)
	})

	r.Route("/api/stats", func(r chi.Router) {
		r.Get("/dashboard", s.handleStatsDashboard)
		r.Get("/memory", s.handleStatsMemory)
		r.Get("/activity", s.handleStatsActivity)
		r.Get("/categories", s.handleStatsCategories)
		r.Get("/streak", s.handleStatsStreak)
	})

	r.Post("/api/documents", s.handleDocumentRegister)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
		},
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
