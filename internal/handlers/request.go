package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/cineflix/internal/platform/api"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads up to maxRequestBodyBytes from r.Body and decodes JSON into dst.
// On failure it writes a 400 response and returns false.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, rid string, dst *T) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(dst); err != nil {
		api.BadRequest(w, "INVALID_JSON", "Invalid JSON", rid, nil)
		return false
	}
	return true
}

// movieID extracts and parses the movie_id route parameter. On failure it
// writes a 400 response and returns false.
func movieID(w http.ResponseWriter, r *http.Request, rid string) (int64, bool) {
	raw := chi.URLParam(r, "movie_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		api.BadRequest(w, "INVALID_ID", "movie_id must be a positive integer", rid, nil)
		return 0, false
	}
	return id, true
}
