package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// envelope is the uniform JSON shape returned on every failure response.
type envelope struct {
	Error envelopeBody `json:"error"`
}

type envelopeBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// From extracts the typed failure from err, or returns Internal() for
// anything outside the taxonomy. Internal causes never reach the client.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal()
}

// Write renders e as the error envelope with its HTTP status.
func Write(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(envelope{Error: envelopeBody{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}})
}
