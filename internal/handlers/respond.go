// Package handlers exposes the portal's JSON API over gorilla/mux.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/middleware"
	"github.com/ukydev/municipal-assets/internal/models"
)

// maxJSONBody bounds request bodies other than uploads.
const maxJSONBody = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

// writeError renders err as a readable JSON message with the status its kind
// maps to. Details of upstream failures stay in the logs.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *apperr.ValidationError
		terr *apperr.InvalidTransitionError
		berr *apperr.BackendError
		serr *apperr.StorageError
	)
	entry := log.WithFields(log.Fields{
		"request_id": middleware.GetRequestID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}).WithError(err)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperr.ErrValidation.Error(), Fields: verr.Fields()})
	case errors.As(err, &terr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: terr.Error()})
	case errors.As(err, &berr):
		status := berr.StatusCode
		if status < 400 || status >= 500 {
			entry.Error("backend request failed")
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Error: berr.Message, Fields: berr.FieldErrors})
	case errors.As(err, &serr):
		entry.Error("storage operation failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "file storage is unavailable, try again later"})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apperr.ErrNotFound.Error()})
	default:
		entry.Error("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return false
	}
	return true
}

func session(w http.ResponseWriter, r *http.Request) (models.SessionContext, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "User context not found"})
	}
	return sess, ok
}

func invalidParam(field, reason string) error {
	verr := apperr.NewValidationError()
	verr.Reject(field, reason)
	return verr
}
