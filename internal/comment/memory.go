package comment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu       sync.RWMutex
	comments map[string]Comment // id -> comment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{comments: make(map[string]Comment)}
}

func (s *InMemoryStore) Create(_ context.Context, c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.New().String()
	c.PostedAt = time.Now().UTC()
	s.comments[c.ID] = c
	return c, nil
}

func (s *InMemoryStore) ForMovie(_ context.Context, movieID int64) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Comment
	for _, c := range s.comments {
		if c.MovieID == movieID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].PostedAt.After(out[j].PostedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFoundOrForbidden
	}
	return c, nil
}

func (s *InMemoryStore) Update(_ context.Context, id, user, body string, stars int) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.User != user {
		return Comment{}, ErrNotFoundOrForbidden
	}
	c.Body = body
	c.Stars = stars
	c.PostedAt = time.Now().UTC()
	s.comments[id] = c
	return c, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id, user string, admin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return ErrNotFoundOrForbidden
	}
	if !admin && c.User != user {
		return ErrNotFoundOrForbidden
	}
	delete(s.comments, id)
	return nil
}
