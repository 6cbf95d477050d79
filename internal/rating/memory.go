package rating

import (
	"context"
	"sync"
)

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu      sync.RWMutex
	ratings map[string]map[int64]Rating // user -> movie id -> rating
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{ratings: make(map[string]map[int64]Rating)}
}

func (s *InMemoryStore) Set(_ context.Context, r Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ratings[r.User] == nil {
		s.ratings[r.User] = make(map[int64]Rating)
	}
	s.ratings[r.User][r.MovieID] = r
	return nil
}

func (s *InMemoryStore) UserRatings(_ context.Context, user string) (map[int64]Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]Rating, len(s.ratings[user]))
	for id, r := range s.ratings[user] {
		out[id] = r
	}
	return out, nil
}

func (s *InMemoryStore) MovieRatings(_ context.Context, movieID int64) ([]Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Rating
	for _, byMovie := range s.ratings {
		if r, ok := byMovie[movieID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryStore) DeleteUser(_ context.Context, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ratings, user)
	return nil
}
