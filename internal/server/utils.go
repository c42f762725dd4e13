package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/internal/repo"
	"github.com/euRhuanOLiveira/Driverpro/internal/service"
)

type myErr struct {
	ErrStr string `json:"error"`
}

func errorWrite(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := &myErr{
		ErrStr: err.Error(),
	}
	json.NewEncoder(w).Encode(msg)
}

func jsonWrite(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// statusOf maps service errors to HTTP codes. Anything unknown is a 500.
func statusOf(err error) int {
	var authErr *domain.AuthError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &authErr):
		if authErr.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway
		}
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrImportInProgress), errors.Is(err, repo.ErrDriverIDTaken):
		return http.StatusConflict
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidSimulation), errors.Is(err, service.ErrInvalidProfileForm):
		return http.StatusBadRequest
	case domain.IsUserFacing(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError hides internal error text behind a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		err = errors.New("internal error")
	}
	errorWrite(w, code, err)
}
