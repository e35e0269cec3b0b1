package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/engramd/engram/internal/domain"
)

// documentRegisterRequest is the JSON body for registering a document
// ahead of an external ingestion collaborator filling in its content.
type documentRegisterRequest struct {
	Title          string   `json:"title"`
	FilePath       string   `json:"file_path"`
	FileType       string   `json:"file_type"`
	Category       *string  `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	PriorityRating int      `json:"priority_rating"`
	PrioritySlider int      `json:"priority_slider"`
}

func (s *Server) handleDocumentRegister(w http.ResponseWriter, r *http.Request) {
	var req documentRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Title == "" || req.FilePath == "" {
		writeError(w, http.StatusBadRequest, "title and file_path are required")
		return
	}

	doc := &domain.Document{
		ID:             uuid.NewString(),
		Title:          req.Title,
		FilePath:       req.FilePath,
		FileType:       domain.FileType(req.FileType),
		Category:       req.Category,
		Tags:           req.Tags,
		PriorityRating: req.PriorityRating,
		PrioritySlider: req.PrioritySlider,
	}

	pending, err := s.engine.RegisterDocument(r.Context(), doc)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"document": doc,
		"pending":  pending,
	})
}
