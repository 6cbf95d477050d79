package handlers

import (
	"net/http"
	"sort"

	"github.com/example/cineflix/internal/platform/analytics"
	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/platform/httpserver"
	"github.com/example/cineflix/internal/rating"
	"github.com/example/cineflix/internal/recommend"
)

type rateRequest struct {
	Stars int `json:"stars"`
}

// RateMovie records the caller's rating and returns the movie with its
// refreshed aggregate.
func RateMovie(engine *recommend.Engine, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_MISSING", "authentication required", rid)
			return
		}
		id, ok := movieID(w, r, rid)
		if !ok {
			return
		}

		var req rateRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		m, err := engine.RateMovie(r.Context(), username, id, req.Stars)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		ap.Publish(analytics.SubjectMovieRated, "movie_rated", username, map[string]any{
			"movie_id": m.ID,
			"stars":    req.Stars,
		})

		api.WriteJSON(w, http.StatusOK, m)
	}
}

// MyRatings returns everything the caller has rated.
func MyRatings(store rating.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_MISSING", "authentication required", rid)
			return
		}

		rated, err := store.UserRatings(r.Context(), username)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		out := make([]rating.Rating, 0, len(rated))
		for _, rt := range rated {
			out = append(out, rt)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
		api.WriteJSON(w, http.StatusOK, map[string]any{"ratings": out, "count": len(out)})
	}
}
