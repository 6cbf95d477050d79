package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/cineflix/internal/comment"
	"github.com/example/cineflix/internal/platform/analytics"
	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/platform/httpserver"
	"github.com/example/cineflix/internal/recommend"
	"github.com/example/cineflix/internal/user"
)

type commentRequest struct {
	Stars int    `json:"stars"`
	Body  string `json:"body"`
}

// ListComments returns a movie's comments, newest first.
func ListComments(store comment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id, ok := movieID(w, r, rid)
		if !ok {
			return
		}
		comments, err := store.ForMovie(r.Context(), id)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		if comments == nil {
			comments = []comment.Comment{}
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"comments": comments, "count": len(comments)})
	}
}

// PostComment stores a comment; its stars feed the movie's aggregate rating.
func PostComment(engine *recommend.Engine, ap *analytics.Publisher) http.HandlerFunc {
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

		var req commentRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		c, err := engine.AddComment(r.Context(), id, username, req.Stars, strings.TrimSpace(req.Body))
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		ap.Publish(analytics.SubjectCommentPosted, "comment_posted", username, map[string]any{
			"movie_id":   id,
			"comment_id": c.ID,
		})

		api.WriteJSON(w, http.StatusCreated, c)
	}
}

// UpdateComment edits the caller's own comment.
func UpdateComment(engine *recommend.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_MISSING", "authentication required", rid)
			return
		}
		commentID := chi.URLParam(r, "comment_id")

		var req commentRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		c, err := engine.UpdateComment(r.Context(), commentID, username, strings.TrimSpace(req.Body), req.Stars)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

// DeleteComment removes a comment. Admins may delete anyone's.
func DeleteComment(engine *recommend.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_MISSING", "authentication required", rid)
			return
		}
		role, _ := auth.RoleFromContext(r.Context())
		admin := strings.EqualFold(role, user.RoleAdmin)

		commentID := chi.URLParam(r, "comment_id")
		if err := engine.DeleteComment(r.Context(), commentID, username, admin); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
