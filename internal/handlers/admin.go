package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/platform/httpserver"
	"github.com/example/cineflix/internal/user"
)

// ListUsers returns every account.
func ListUsers(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		users, err := svc.List(r.Context())
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
	}
}

// PromoteUser grants the admin role to an account.
func PromoteUser(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		u, err := svc.Promote(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}

// DeleteUser removes an account and its ratings. Self-deletion is refused so
// an admin cannot lock themselves out mid-session.
func DeleteUser(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		target := chi.URLParam(r, "username")
		if caller, ok := auth.UsernameFromContext(r.Context()); ok && strings.EqualFold(caller, target) {
			api.BadRequest(w, "SELF_DELETE", "cannot delete your own account", rid, nil)
			return
		}

		if err := svc.Delete(r.Context(), target); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
