package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// envelope is the JSON wrapper every endpoint responds with.
// Results is set on list responses; Total, Page and TotalPages on paginated ones.
type envelope struct {
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Results    *int           `json:"results,omitempty"`
	Total      *int64         `json:"total,omitempty"`
	Page       int            `json:"page,omitempty"`
	TotalPages *int           `json:"totalPages,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeData writes a success envelope carrying one keyed payload.
func writeData(w http.ResponseWriter, status int, key string, v any) {
	writeJSON(w, status, envelope{Status: statusSuccess, Data: map[string]any{key: v}})
}

// writeList writes a success envelope for an unpaginated list.
func writeList[T any](w http.ResponseWriter, key string, items []T) {
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Status: statusSuccess, Results: &n, Data: map[string]any{key: items}})
}

// writePage writes a success envelope for one page of a paginated list.
func writePage[T any](w http.ResponseWriter, key string, items []T, total int64, p domain.PaginationParams) {
	n := len(items)
	pages := p.TotalPages(total)
	writeJSON(w, http.StatusOK, envelope{
		Status:     statusSuccess,
		Results:    &n,
		Total:      &total,
		Page:       p.Page,
		TotalPages: &pages,
		Data:       map[string]any{key: items},
	})
}

// writeMessage writes a success envelope with a message and no data.
func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Status: statusSuccess, Message: message})
}

// writeFail writes a client-error envelope.
func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: statusFail, Message: message})
}

// writeError maps a service error onto the envelope. notFound is the message
// used for domain.ErrNotFound because the handler knows what was looked up.
// Anything unrecognised is logged and returned as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeFail(w, http.StatusBadRequest, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotFound):
		writeFail(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrDuplicate):
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("duplicate %s: please use another value", unwrapMessage(err, domain.ErrDuplicate)))
	default:
		slog.ErrorContext(r.Context(), "unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, envelope{Status: statusError, Message: err.Error()})
	}
}

// unwrapMessage extracts the human-readable part following a wrapped sentinel.
// e.g. "service.AgentService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// decodeJSON decodes the request body into dst, writing a 400 or 413 and
// returning false when the body is missing, malformed, or too large.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		writeFail(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		writeFail(w, http.StatusBadRequest, "request body is required")
	case errors.As(err, &typeErr):
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("invalid value for %s", typeErr.Field))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		writeFail(w, http.StatusBadRequest, "request body is not valid JSON")
	default:
		writeFail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return false
}

// validationError builds a domain.ErrValidation for input rejected at the
// API boundary.
func validationError(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
