// Package catalog holds the movie catalog: the scoring universe for
// recommendations and the genre signal source.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("movie not found")
	ErrDuplicateTitle = errors.New("title already in catalog")
	ErrInvalidMovie   = errors.New("invalid movie")
)

// Movie is the canonical catalog entry. AggregateRating is a derived cache on
// the 0-10 scale, written only through SetAggregateRating.
type Movie struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Director        string    `json:"director"`
	Genre           string    `json:"genre"`
	Year            int       `json:"year"`
	AggregateRating float64   `json:"aggregate_rating"`
	Actors          []string  `json:"actors"`
	AddedAt         time.Time `json:"added_at"`
}

// MovieInput carries caller-supplied fields for add and edit operations.
// InitialRating is honoured only on Add; later aggregate updates go through
// SetAggregateRating exclusively.
type MovieInput struct {
	Title         string   `json:"title"`
	Director      string   `json:"director"`
	Genre         string   `json:"genre"`
	Year          int      `json:"year"`
	Actors        []string `json:"actors"`
	InitialRating float64  `json:"initial_rating"`
}

// Validate rejects inputs with missing required fields or an out-of-range
// initial rating. Invalid values are never clamped.
func (in MovieInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidMovie)
	}
	if strings.TrimSpace(in.Director) == "" {
		return fmt.Errorf("%w: director is required", ErrInvalidMovie)
	}
	if strings.TrimSpace(in.Genre) == "" {
		return fmt.Errorf("%w: genre is required", ErrInvalidMovie)
	}
	if in.Year < 1888 || in.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidMovie, in.Year)
	}
	if in.InitialRating < 0 || in.InitialRating > 10 {
		return fmt.Errorf("%w: rating must be within [0,10]", ErrInvalidMovie)
	}
	return nil
}

// Sort orders accepted by List.
const (
	SortByRating = "rating"
	SortByAdded  = "added"
	SortByTitle  = "title"
)

// Filter narrows and orders List results. Zero values mean "no filter".
type Filter struct {
	Genre string
	Year  int
	Query string // substring match on title, director or actors
	Sort  string
}

// Stats summarizes the catalog.
type Stats struct {
	TotalMovies int            `json:"total_movies"`
	ByGenre     map[string]int `json:"by_genre"`
	ByYear      map[int]int    `json:"by_year"`
	MeanRating  float64        `json:"mean_rating"`
}

// Store defines all persistence operations for the catalog.
type Store interface {
	Add(ctx context.Context, in MovieInput) (Movie, error)
	Get(ctx context.Context, id int64) (Movie, error)
	// GetByTitle is a boundary convenience; the numeric id is the canonical key.
	GetByTitle(ctx context.Context, title string) (Movie, error)
	List(ctx context.Context, f Filter) ([]Movie, error)
	Update(ctx context.Context, id int64, in MovieInput) (Movie, error)
	Delete(ctx context.Context, id int64) error
	SetAggregateRating(ctx context.Context, id int64, rating float64) error
	Stats(ctx context.Context) (Stats, error)
}
