package handlers

import (
	"errors"
	"net/http"

	"github.com/example/cineflix/internal/catalog"
	"github.com/example/cineflix/internal/comment"
	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/rating"
	"github.com/example/cineflix/internal/sales"
	"github.com/example/cineflix/internal/user"
)

// writeDomainError maps domain sentinel errors onto the HTTP error envelope.
// Comment lookups deliberately collapse "not yours" into 404 so comment ids
// cannot be probed for ownership.
func writeDomainError(w http.ResponseWriter, rid string, err error) {
	switch {
	case errors.Is(err, rating.ErrInvalidStars),
		errors.Is(err, catalog.ErrInvalidMovie),
		errors.Is(err, sales.ErrInvalidSale),
		errors.Is(err, comment.ErrEmptyBody),
		errors.Is(err, user.ErrWeakPassword),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidUsername):
		api.BadRequest(w, "VALIDATION", err.Error(), rid, nil)
	case errors.Is(err, user.ErrUnauthorized):
		api.Unauthorized(w, "INVALID_CREDENTIALS", "invalid credentials", rid)
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, sales.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, comment.ErrNotFoundOrForbidden):
		api.NotFound(w, "NOT_FOUND", err.Error(), rid)
	case errors.Is(err, catalog.ErrDuplicateTitle),
		errors.Is(err, user.ErrConflict):
		api.Conflict(w, "CONFLICT", err.Error(), rid, nil)
	default:
		api.Internal(w, rid)
	}
}
