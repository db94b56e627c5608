// Package api provides HTTP API handlers for the unistroke recognition service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/config"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, gesture.ErrInsufficientPoints), errors.Is(err, gesture.ErrDegenerateGeometry):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gesture.ErrEmptyTemplateSet):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound), errors.Is(err, config.ErrUnknownSetting):
		return http.StatusNotFound
	case errors.Is(err, app.ErrInvalidTemplate), errors.Is(err, gesture.ErrInvalidOptions), errors.Is(err, config.ErrInvalidValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err with the status from StatusFor. Internal errors
// are reported with the fallback message instead of the error text.
func writeAppError(w http.ResponseWriter, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, fallback)
		return
	}
	writeError(w, status, err.Error())
}

// strokeRequest is the body of requests carrying a raw stroke.
type strokeRequest struct {
	Name   string          `json:"name,omitempty"`
	Points []gesture.Point `json:"points"`
}
