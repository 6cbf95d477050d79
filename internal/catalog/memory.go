package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu     sync.RWMutex
	movies map[int64]Movie
	nextID int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{movies: make(map[int64]Movie), nextID: 1}
}

func (s *InMemoryStore) Add(_ context.Context, in MovieInput) (Movie, error) {
	if err := in.Validate(); err != nil {
		return Movie{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(in.Title)
	for _, m := range s.movies {
		if strings.EqualFold(m.Title, title) {
			return Movie{}, ErrDuplicateTitle
		}
	}

	m := Movie{
		ID:              s.nextID,
		Title:           title,
		Director:        strings.TrimSpace(in.Director),
		Genre:           strings.TrimSpace(in.Genre),
		Year:            in.Year,
		AggregateRating: in.InitialRating,
		Actors:          append([]string(nil), in.Actors...),
		AddedAt:         time.Now().UTC(),
	}
	s.movies[m.ID] = m
	s.nextID++
	return m, nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	return m, nil
}

func (s *InMemoryStore) GetByTitle(_ context.Context, title string) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if strings.EqualFold(m.Title, title) {
			return m, nil
		}
	}
	return Movie{}, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, f Filter) ([]Movie, error) {
	s.mu.RLock()
	out := make([]Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if matches(m, f) {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	switch f.Sort {
	case SortByRating:
		sort.Slice(out, func(i, j int) bool {
			if out[i].AggregateRating != out[j].AggregateRating {
				return out[i].AggregateRating > out[j].AggregateRating
			}
			return out[i].Title < out[j].Title
		})
	case SortByAdded:
		sort.Slice(out, func(i, j int) bool {
			if !out[i].AddedAt.Equal(out[j].AddedAt) {
				return out[i].AddedAt.After(out[j].AddedAt)
			}
			return out[i].Title < out[j].Title
		})
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	}
	return out, nil
}

func matches(m Movie, f Filter) bool {
	if f.Genre != "" && !strings.EqualFold(m.Genre, f.Genre) {
		return false
	}
	if f.Year != 0 && m.Year != f.Year {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		hit := strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Director), q)
		for _, a := range m.Actors {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(a), q)
		}
		if !hit {
			return false
		}
	}
	return true
}

func (s *InMemoryStore) Update(_ context.Context, id int64, in MovieInput) (Movie, error) {
	if err := in.Validate(); err != nil {
		return Movie{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.movies[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	title := strings.TrimSpace(in.Title)
	for otherID, other := range s.movies {
		if otherID != id && strings.EqualFold(other.Title, title) {
			return Movie{}, ErrDuplicateTitle
		}
	}

	m.Title = title
	m.Director = strings.TrimSpace(in.Director)
	m.Genre = strings.TrimSpace(in.Genre)
	m.Year = in.Year
	m.Actors = append([]string(nil), in.Actors...)
	s.movies[id] = m
	return m, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[id]; !ok {
		return ErrNotFound
	}
	delete(s.movies, id)
	return nil
}

func (s *InMemoryStore) SetAggregateRating(_ context.Context, id int64, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return ErrNotFound
	}
	m.AggregateRating = rating
	s.movies[id] = m
	return nil
}

func (s *InMemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		TotalMovies: len(s.movies),
		ByGenre:     make(map[string]int),
		ByYear:      make(map[int]int),
	}
	var sum float64
	for _, m := range s.movies {
		st.ByGenre[m.Genre]++
		st.ByYear[m.Year]++
		sum += m.AggregateRating
	}
	if st.TotalMovies > 0 {
		st.MeanRating = sum / float64(st.TotalMovies)
	}
	return st, nil
}
