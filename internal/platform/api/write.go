package api

import (
	"encoding/json"
	"net/http"
)

// WriteJSON serializes v and writes it with the given status code.
// Encoding failures after the header is sent can only be logged by middleware,
// so they are ignored here.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
