package api

import (
	"net/http"
	"strconv"
)

func (s *Server) handleStatsDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.GetDashboardStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStatsMemory(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.GetMemoryStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStatsActivity(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}
	activity, err := s.engine.GetActivityData(r.Context(), days)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleStatsCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.engine.GetCategoryStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleStatsStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.engine.GetReviewStreak(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}
