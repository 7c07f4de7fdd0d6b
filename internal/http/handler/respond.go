package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"journal/internal/apperr"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	maxBodyBytes = 1 << 20
	retryAfter   = "30"
	wireTime     = "2006-01-02T15:04:05"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeError maps domain errors onto status codes. Anything unrecognized is a 500.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, apperr.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrInsufficientData):
		writeMessage(w, http.StatusUnprocessableEntity, "no impulse logs in the last 7 days")
	case errors.Is(err, apperr.ErrServiceUnavailable):
		w.Header().Set("Retry-After", retryAfter)
		writeMessage(w, http.StatusServiceUnavailable, "ai service unavailable")
	default:
		log.WithError(err).Error("request failed")
		writeMessage(w, http.StatusInternalServerError, "server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid id", "field": "id"})
		return 0, false
	}
	return id, true
}
