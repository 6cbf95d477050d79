// Package comment stores user comments. Every comment carries a normalized
// star value, making it an implicit rating signal for aggregation.
package comment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFoundOrForbidden = errors.New("comment not found or not the author")
	ErrEmptyBody           = errors.New("comment body must not be empty")
)

// Comment is a single comment row. Stars is already normalized to 1-5.
type Comment struct {
	ID       string    `json:"id"`
	MovieID  int64     `json:"movie_id"`
	User     string    `json:"user"`
	Stars    int       `json:"stars"`
	Body     string    `json:"body"`
	PostedAt time.Time `json:"posted_at"`
}

// Store defines the contract for comment persistence.
type Store interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	// ForMovie returns all comments on a movie, newest first.
	ForMovie(ctx context.Context, movieID int64) ([]Comment, error)
	Get(ctx context.Context, id string) (Comment, error)
	// Update replaces body and stars; only the author may update.
	Update(ctx context.Context, id, user, body string, stars int) (Comment, error)
	// Delete removes a comment. With admin=true authorship is not checked.
	Delete(ctx context.Context, id, user string, admin bool) error
}
