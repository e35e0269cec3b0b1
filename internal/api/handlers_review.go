package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/engramd/engram/internal/domain"
)

// reviewRequest is the JSON body every /review endpoint accepts.
type reviewRequest struct {
	Rating     int     `json:"rating"`
	TimeTakenS int     `json:"time_taken_s"`
	SessionID  *string `json:"session_id,omitempty"`
}

func (s *Server) handleItemPreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	outcomes, err := s.engine.PreviewItemReview(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomes)
}

func (s *Server) handleItemReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, rating, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}
	item, err := s.engine.SubmitItemReview(r.Context(), id, rating, req.TimeTakenS, req.SessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDocumentReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, rating, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}
	doc, err := s.engine.SubmitDocumentReview(r.Context(), id, rating, req.TimeTakenS, req.SessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleExtractReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, rating, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}
	ex, err := s.engine.SubmitExtractReview(r.Context(), id, rating, req.TimeTakenS, req.SessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func decodeReviewRequest(w http.ResponseWriter, r *http.Request) (reviewRequest, domain.Rating, bool) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, 0, false
	}
	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		writeDomainError(w, err)
		return req, 0, false
	}
	return req, rating, true
}
