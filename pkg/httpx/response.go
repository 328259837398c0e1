package httpx

import (
	"encoding/json"
	"net/http"
)

// Detail is the error body shape of the access API: {"detail": "..."}.
type Detail struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes an error body with a human-readable message.
func WriteDetail(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Detail{Detail: msg})
}

// WriteServerError writes the uniform 500 response. Unexpected faults never
// leak their message to the client; the handler logs the cause instead.
func WriteServerError(w http.ResponseWriter) {
	WriteDetail(w, http.StatusInternalServerError, "internal server error")
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
