package api

import "net/http"

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	items, err := s.engine.GetQueue(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleQueueNext(w http.ResponseWriter, r *http.Request) {
	item, err := s.engine.GetNextQueueItem(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if item == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleQueueDue(w http.ResponseWriter, r *http.Request) {
	items, err := s.engine.GetDueQueueItems(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleQueueDocumentsDue(w http.ResponseWriter, r *http.Request) {
	items, err := s.engine.GetDueDocumentsOnly(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
