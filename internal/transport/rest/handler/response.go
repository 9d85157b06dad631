package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hireloop/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service error kinds to HTTP status categories.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmptyAnswer),
		errors.Is(err, service.ErrInterviewComplete):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAgentTimeout):
		writeError(w, http.StatusRequestTimeout, "request timed out, please try again")
	case errors.Is(err, service.ErrAgent):
		writeError(w, http.StatusInternalServerError, "failed to reach the interview service, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
