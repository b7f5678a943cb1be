package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the API's uniform response shape. Data carries the
// payload on success; Message carries a safe, user-facing error.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RespondData writes a success envelope with the given status code.
// It marshals first so an encoding failure can still produce a clean
// 500 instead of a truncated body.
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(Envelope{Success: true, Data: data})
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondMessage writes a success envelope carrying only a message
// (deletes and other data-less confirmations).
func RespondMessage(w http.ResponseWriter, status int, message string) {
	payload, err := json.Marshal(Envelope{Success: true, Message: message})
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondError writes a failure envelope with a safe message. Internal
// error detail never travels through here; it is logged upstream.
func RespondError(w http.ResponseWriter, status int, message string) {
	payload, err := json.Marshal(Envelope{Success: false, Message: message})
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
