// Package shared holds the JSON response helpers every handler uses so the
// wire envelopes stay consistent.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "souzoku/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the shared JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	message := "internal error"
	var de *domainerrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	WriteJSON(w, domainerrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": message,
	})
}
