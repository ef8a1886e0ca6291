package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/timeledger/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
// Candidates is only set for ambiguous_reference.
type ErrorDetail struct {
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	Candidates []domain.Project `json:"candidates,omitempty"`
}

// writeError maps a service error onto a status code and error body.
// Anything that is not a known domain sentinel is logged and reported as a
// 500 without leaking its text to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var amb *domain.AmbiguousReferenceError
	switch {
	case errors.As(err, &amb):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code:       "ambiguous_reference",
			Message:    amb.Error(),
			Candidates: amb.Candidates,
		}})
	case errors.Is(err, domain.ErrInvalidRange):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("invalid_range", unwrapMessage(err, domain.ErrInvalidRange)))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrProjectNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody("project not found"))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(unwrapMessage(err, domain.ErrNotFound)))
	case errors.Is(err, domain.ErrAlreadyRunning):
		writeJSON(w, http.StatusConflict, errorBody("already_running", unwrapMessage(err, domain.ErrAlreadyRunning)))
	case errors.Is(err, domain.ErrNotRunning):
		writeJSON(w, http.StatusConflict, errorBody("not_running", "no timer is running"))
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// notFoundBody returns an ErrorResponse for a missing resource.
func notFoundBody(message string) ErrorResponse {
	return errorBody("not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return errorBody("validation_error", unwrapMessage(err, domain.ErrValidation))
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return errorBody("validation_error", message)
}

// unwrapMessage extracts the human-readable part of a wrapped sentinel error.
// e.g. "service.ProjectService.Create: validation error: name is required" → "name is required"
// When the sentinel is not followed by detail the sentinel text itself is kept,
// e.g. "timer already running since 2026-02-25 09:00:00".
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	i := strings.Index(msg, sentinel.Error())
	if i < 0 {
		return sentinel.Error()
	}
	msg = msg[i:]
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && rest != "" {
		return rest
	}
	return msg
}

// writeBodyError reports a request body that could not be decoded.
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", err.Error()))
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
}

// writeJSON encodes v with the given status. Encoding errors are only
// logged: the status line has already been sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected so typos do not silently become defaults.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}
