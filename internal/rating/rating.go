// Package rating stores per-user star ratings, normalized to the 1-5 scale.
package rating

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidStars rejects raw values outside [1,10]. Out-of-range values are
// never clamped.
var ErrInvalidStars = errors.New("stars out of range")

// Rating is one user's rating for one movie, already normalized.
type Rating struct {
	User    string    `json:"user"`
	MovieID int64     `json:"movie_id"`
	Stars   int       `json:"stars"` // 1-5
	RatedAt time.Time `json:"rated_at"`
}

// NormalizeStars maps a raw rating onto the 1-5 scale. Values in [1,5] pass
// through unchanged; values in (5,10] are treated as 10-scale and halved with
// rounding. Applied exactly once, at ingestion: stored ratings are never
// re-normalized.
func NormalizeStars(raw int) (int, error) {
	if raw < 1 || raw > 10 {
		return 0, fmt.Errorf("%w: %d not within [1,10]", ErrInvalidStars, raw)
	}
	if raw <= 5 {
		return raw, nil
	}
	return int(math.Round(float64(raw) / 2)), nil
}

// Store defines the rating persistence contract. Callers pass ratings with
// Stars already normalized and validated in [1,5].
type Store interface {
	// Set overwrites-or-inserts the rating for (r.User, r.MovieID).
	Set(ctx context.Context, r Rating) error
	// UserRatings returns all ratings by one user keyed by movie id.
	// An unknown user yields an empty map, not an error.
	UserRatings(ctx context.Context, user string) (map[int64]Rating, error)
	// MovieRatings returns every user's rating for one movie.
	MovieRatings(ctx context.Context, movieID int64) ([]Rating, error)
	// DeleteUser drops all ratings by one user.
	DeleteUser(ctx context.Context, user string) error
}
