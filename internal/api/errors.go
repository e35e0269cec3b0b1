package api

import (
	"net/http"

	"github.com/engramd/engram/internal/domain"
)

// writeDomainError maps a domain error's stable kind to an HTTP status
// and writes it as a JSON error body.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.ErrNotFound:
		status = http.StatusNotFound
	case domain.ErrInvalidInput:
		status = http.StatusBadRequest
	case domain.ErrConflict:
		status = http.StatusConflict
	case domain.ErrCancelled:
		status = http.StatusRequestTimeout
	case domain.ErrScheduler, domain.ErrPersistence, domain.ErrInternal:
		status = http.StatusInternalServerError
	}
	writeError(w, status, err.Error())
}
