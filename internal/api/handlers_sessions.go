package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.StartReview(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.engine.EndReview(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
