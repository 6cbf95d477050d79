package handlers

import (
	"net/http"
	"strconv"

	"github.com/example/cineflix/internal/catalog"
	"github.com/example/cineflix/internal/platform/analytics"
	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/httpserver"
)

// ListMovies returns the catalog, optionally filtered by genre, year and a
// free-text query, and sorted by rating, added date or title.
func ListMovies(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		f := catalog.Filter{
			Genre: r.URL.Query().Get("genre"),
			Query: r.URL.Query().Get("q"),
			Sort:  r.URL.Query().Get("sort"),
		}
		if raw := r.URL.Query().Get("year"); raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil {
				api.BadRequest(w, "INVALID_YEAR", "year must be an integer", rid, nil)
				return
			}
			f.Year = year
		}

		movies, err := store.List(r.Context(), f)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"movies": movies, "count": len(movies)})
	}
}

// AddMovie inserts a catalog entry.
func AddMovie(store catalog.Store, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var in catalog.MovieInput
		if !decodeJSON(w, r, rid, &in) {
			return
		}

		m, err := store.Add(r.Context(), in)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		ap.Publish(analytics.SubjectMovieAdded, "movie_added", "", map[string]any{
			"movie_id": m.ID,
			"title":    m.Title,
		})

		api.WriteJSON(w, http.StatusCreated, m)
	}
}

// GetMovie returns one catalog entry by id.
func GetMovie(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id, ok := movieID(w, r, rid)
		if !ok {
			return
		}
		m, err := store.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, m)
	}
}

// UpdateMovie edits a catalog entry. The aggregate rating is not editable
// through this endpoint.
func UpdateMovie(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id, ok := movieID(w, r, rid)
		if !ok {
			return
		}
		var in catalog.MovieInput
		if !decodeJSON(w, r, rid, &in) {
			return
		}

		m, err := store.Update(r.Context(), id, in)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, m)
	}
}

// DeleteMovie removes a catalog entry.
func DeleteMovie(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id, ok := movieID(w, r, rid)
		if !ok {
			return
		}
		if err := store.Delete(r.Context(), id); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MovieStats returns catalog-wide statistics.
func MovieStats(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		st, err := store.Stats(r.Context())
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, st)
	}
}
