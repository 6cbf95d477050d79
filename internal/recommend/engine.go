// Package recommend implements the rating-aggregation and recommendation
// pipeline: genre preference means over a user's ratings, the weighted
// candidate scorer, and the synchronous aggregate-rating recompute.
package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/cineflix/internal/catalog"
	"github.com/example/cineflix/internal/comment"
	"github.com/example/cineflix/internal/rating"
)

// DefaultTopN is used when a recommendation request does not specify a limit.
const DefaultTopN = 10

// Scored pairs a candidate movie with its ranking score.
type Scored struct {
	Movie catalog.Movie `json:"movie"`
	Score float64       `json:"score"`
}

// Engine coordinates the catalog, rating and comment stores. All rating
// mutations go through it so the cached aggregate rating is recomputed
// synchronously before the call returns; a recommendation issued afterwards
// can never observe a stale aggregate.
type Engine struct {
	mu       sync.RWMutex
	catalog  catalog.Store
	ratings  rating.Store
	comments comment.Store
	log      *zap.Logger
}

func NewEngine(cat catalog.Store, ratings rating.Store, comments comment.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: cat, ratings: ratings, comments: comments, log: log}
}

// RateMovie normalizes rawStars, upserts the user's rating and recomputes the
// movie's aggregate. The movie must exist. Returns the movie with its
// refreshed aggregate rating.
func (e *Engine) RateMovie(ctx context.Context, user string, movieID int64, rawStars int) (catalog.Movie, error) {
	stars, err := rating.NormalizeStars(rawStars)
	if err != nil {
		return catalog.Movie{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.catalog.Get(ctx, movieID); err != nil {
		return catalog.Movie{}, err
	}
	if err := e.ratings.Set(ctx, rating.Rating{
		User:    user,
		MovieID: movieID,
		Stars:   stars,
		RatedAt: time.Now().UTC(),
	}); err != nil {
		return catalog.Movie{}, err
	}
	if _, err := e.recomputeLocked(ctx, movieID); err != nil {
		return catalog.Movie{}, err
	}
	return e.catalog.Get(ctx, movieID)
}

// AddComment normalizes rawStars, stores the comment and recomputes the
// movie's aggregate. A comment on a movie that has meanwhile left the catalog
// is still stored; the recompute then degrades to a logged no-op.
func (e *Engine) AddComment(ctx context.Context, movieID int64, user string, rawStars int, body string) (comment.Comment, error) {
	stars, err := rating.NormalizeStars(rawStars)
	if err != nil {
		return comment.Comment{}, err
	}
	if strings.TrimSpace(body) == "" {
		return comment.Comment{}, comment.ErrEmptyBody
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.comments.Create(ctx, comment.Comment{
		MovieID: movieID,
		User:    user,
		Stars:   stars,
		Body:    body,
	})
	if err != nil {
		return comment.Comment{}, err
	}
	if _, err := e.recomputeLocked(ctx, movieID); err != nil {
		return comment.Comment{}, err
	}
	return c, nil
}

// UpdateComment edits a comment's body and stars (author only) and recomputes
// the aggregate, since the star change is a rating signal.
func (e *Engine) UpdateComment(ctx context.Context, id, user, body string, rawStars int) (comment.Comment, error) {
	stars, err := rating.NormalizeStars(rawStars)
	if err != nil {
		return comment.Comment{}, err
	}
	if strings.TrimSpace(body) == "" {
		return comment.Comment{}, comment.ErrEmptyBody
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.comments.Update(ctx, id, user, body, stars)
	if err != nil {
		return comment.Comment{}, err
	}
	if _, err := e.recomputeLocked(ctx, c.MovieID); err != nil {
		return comment.Comment{}, err
	}
	return c, nil
}

// DeleteComment removes a comment (author, or anyone with admin) and
// recomputes the aggregate of the movie it was attached to.
func (e *Engine) DeleteComment(ctx context.Context, id, user string, admin bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := e.comments.Delete(ctx, id, user, admin); err != nil {
		return err
	}
	_, err = e.recomputeLocked(ctx, c.MovieID)
	return err
}

// RecomputeAggregate recalculates and persists one movie's aggregate rating.
// Exposed for catalog maintenance; normal mutations trigger it implicitly.
func (e *Engine) RecomputeAggregate(ctx context.Context, movieID int64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recomputeLocked(ctx, movieID)
}

// recomputeLocked gathers one signal per user (the most recent of their
// direct rating and their latest comment stars), averages on the 1-5 scale,
// scales to 0-10 and writes through to the catalog. Zero signals leave the
// stored value untouched: it may have been set manually at catalog-add time.
func (e *Engine) recomputeLocked(ctx context.Context, movieID int64) (float64, error) {
	m, err := e.catalog.Get(ctx, movieID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			e.log.Warn("aggregate recompute skipped, movie missing from catalog",
				zap.Int64("movie_id", movieID))
			return 0, nil
		}
		return 0, err
	}

	type signal struct {
		stars int
		at    time.Time
	}
	latest := make(map[string]signal)

	direct, err := e.ratings.MovieRatings(ctx, movieID)
	if err != nil {
		return 0, err
	}
	for _, r := range direct {
		if cur, ok := latest[r.User]; !ok || r.RatedAt.After(cur.at) {
			latest[r.User] = signal{stars: r.Stars, at: r.RatedAt}
		}
	}

	comments, err := e.comments.ForMovie(ctx, movieID)
	if err != nil {
		return 0, err
	}
	for _, c := range comments {
		// On an identical timestamp the comment wins over the direct rating.
		if cur, ok := latest[c.User]; !ok || !c.PostedAt.Before(cur.at) {
			latest[c.User] = signal{stars: c.Stars, at: c.PostedAt}
		}
	}

	if len(latest) == 0 {
		return m.AggregateRating, nil
	}

	var sum int
	for _, s := range latest {
		sum += s.stars
	}
	mean := float64(sum) / float64(len(latest))
	agg := math.Round(mean*2*10) / 10

	if err := e.catalog.SetAggregateRating(ctx, movieID, agg); err != nil {
		return 0, err
	}
	return agg, nil
}

// GenreAffinities returns the mean of the user's stars per genre (1-5 scale).
// Genres the user has never rated are absent from the map; callers must treat
// absence as "no preference signal", not zero.
func (e *Engine) GenreAffinities(ctx context.Context, user string) (map[string]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.genreAffinitiesLocked(ctx, user)
}

func (e *Engine) genreAffinitiesLocked(ctx context.Context, user string) (map[string]float64, error) {
	rated, err := e.ratings.UserRatings(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(rated) == 0 {
		return map[string]float64{}, nil
	}

	movies, err := e.catalog.List(ctx, catalog.Filter{})
	if err != nil {
		return nil, err
	}
	genreByID := make(map[int64]string, len(movies))
	for _, m := range movies {
		genreByID[m.ID] = m.Genre
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for id, r := range rated {
		genre, ok := genreByID[id]
		if !ok {
			// Rated movie left the catalog; it cannot contribute a genre.
			continue
		}
		sums[genre] += r.Stars
		counts[genre]++
	}

	out := make(map[string]float64, len(sums))
	for genre, sum := range sums {
		out[genre] = float64(sum) / float64(counts[genre])
	}
	return out, nil
}

// Recommend returns up to topN unseen movies ranked best-first.
//
// A user without ratings gets the catalog's top movies by aggregate rating.
// Otherwise each unrated candidate scores
//
//	0.5*genreAffinity + 0.5*aggregateRating
//
// which deliberately mixes the 1-5 affinity scale with the 0-10 aggregate
// scale at equal weight; the ranking the application has always produced
// depends on exactly this formula. Ties break by title ascending so repeated
// calls over unchanged state return identical lists.
func (e *Engine) Recommend(ctx context.Context, user string, topN int) ([]Scored, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	movies, err := e.catalog.List(ctx, catalog.Filter{})
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return []Scored{}, nil
	}

	rated, err := e.ratings.UserRatings(ctx, user)
	if err != nil {
		return nil, err
	}

	// Cold start: highest aggregate ratings, regardless of genre.
	if len(rated) == 0 {
		out := make([]Scored, 0, len(movies))
		for _, m := range movies {
			out = append(out, Scored{Movie: m, Score: m.AggregateRating})
		}
		sortScored(out)
		return truncate(out, topN), nil
	}

	affinities, err := e.genreAffinitiesLocked(ctx, user)
	if err != nil {
		return nil, err
	}

	out := make([]Scored, 0, len(movies))
	for _, m := range movies {
		if _, seen := rated[m.ID]; seen {
			continue
		}
		genreScore := affinities[m.Genre] // absent genre contributes 0
		out = append(out, Scored{
			Movie: m,
			Score: 0.5*genreScore + 0.5*m.AggregateRating,
		})
	}
	sortScored(out)
	return truncate(out, topN), nil
}

func sortScored(s []Scored) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].Movie.Title < s[j].Movie.Title
	})
}

func truncate(s []Scored, n int) []Scored {
	if len(s) > n {
		return s[:n]
	}
	return s
}
