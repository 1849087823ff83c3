// Package handler exposes the REST API over the service layer using chi.
// Handlers decode typed request bodies, delegate to services and map the
// domain failure taxonomy onto HTTP statuses. No business rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"eventease/internal/domain"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// messageResponse is the envelope for plain status messages.
type messageResponse struct {
	Message string `json:"message"`
}

// writeError maps a domain error code onto an HTTP status. Untyped errors
// become 500 with a generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.CodeOf(err) {
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeNotAuthorized:
		status = http.StatusForbidden
	case domain.CodeValidation, domain.CodeConflict:
		// Conflicts surface as 400; clients key on the message, not the status.
		status = http.StatusBadRequest
	}
	writeJSON(w, status, messageResponse{Message: domain.MessageOf(err)})
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.New(domain.CodeValidation, "invalid request body")
	}
	return nil
}
