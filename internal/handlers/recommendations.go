package handlers

import (
	"net/http"
	"strconv"

	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/platform/httpserver"
	"github.com/example/cineflix/internal/recommend"
)

// Recommendations returns the caller's top recommendations, best first.
func Recommendations(engine *recommend.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_MISSING", "authentication required", rid)
			return
		}

		limit := recommend.DefaultTopN
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				api.BadRequest(w, "INVALID_LIMIT", "limit must be a positive integer", rid, nil)
				return
			}
			limit = n
		}

		recs, err := engine.Recommend(r.Context(), username, limit)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"recommendations": recs, "count": len(recs)})
	}
}

// Affinities returns the caller's mean rating per genre.
func Affinities(engine *recommend.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_MISSING", "authentication required", rid)
			return
		}

		aff, err := engine.GenreAffinities(r.Context(), username)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"affinities": aff})
	}
}
