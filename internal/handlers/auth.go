package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/example/cineflix/internal/platform/analytics"
	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/platform/httpserver"
	"github.com/example/cineflix/internal/user"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	User        user.User `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
}

// Register creates an account and returns it with a fresh access token.
func Register(svc *user.Service, issuer auth.Issuer, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req registerRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		u, err := svc.Register(r.Context(), strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		token, expiresAt, err := issuer.NewAccessToken(u.Username, u.Role, time.Now())
		if err != nil {
			api.Internal(w, rid)
			return
		}

		ap.Publish(analytics.SubjectAuthRegistered, "user_registered", u.Username, nil)

		api.WriteJSON(w, http.StatusCreated, authResponse{
			User:        u,
			AccessToken: token,
			ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		})
	}
}

// Login checks credentials and returns an access token.
func Login(svc *user.Service, issuer auth.Issuer, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req loginRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		u, err := svc.Login(r.Context(), strings.TrimSpace(req.Login), req.Password)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		token, expiresAt, err := issuer.NewAccessToken(u.Username, u.Role, time.Now())
		if err != nil {
			api.Internal(w, rid)
			return
		}

		ap.Publish(analytics.SubjectAuthLoggedIn, "user_logged_in", u.Username, nil)

		api.WriteJSON(w, http.StatusOK, authResponse{
			User:        u,
			AccessToken: token,
			ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		})
	}
}
