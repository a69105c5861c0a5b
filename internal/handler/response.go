package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON / writeError so status codes and
// error bodies stay consistent across the API.
//
// ERROR FORMAT:
// Validation failures (400) carry every failing field at once:
//
//	{"errorsMessages": [{"message": "name is required", "field": "name"}]}
//
// 401, 403 and 404 carry no body. Storage failures answer 503 and anything
// unexpected answers 500; neither exposes the underlying error.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/bloggers-platform/internal/apperror"
)

// maxBodyBytes caps request bodies; every payload in this API is small.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every 400 response.
type ErrorResponse struct {
	ErrorsMessages []apperror.FieldError `json:"errorsMessages"`
}

// writeJSON sends data as JSON with the given status.
// Headers and status must be set before the body is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent, so logging is all that is left
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusOf maps a domain error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError translates a service error into a response. Server-side
// failures are logged with the full error chain.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusOf(err)
	if status != http.StatusBadRequest {
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", slog.Int("status", status), slog.String("error", err.Error()))
		}
		w.WriteHeader(status)
		return
	}

	var fields []apperror.FieldError
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		fields = appErr.FieldErrors()
		if len(fields) == 0 {
			fields = []apperror.FieldError{{Message: appErr.Message}}
		}
	} else {
		fields = []apperror.FieldError{{Message: err.Error()}}
	}
	writeJSON(w, status, ErrorResponse{ErrorsMessages: fields})
}

// decodeJSON reads the request body into dst. A malformed body answers 400
// in the usual error format and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorsMessages: []apperror.FieldError{
			{Field: "body", Message: "invalid JSON body"},
		}})
		return false
	}
	return true
}
