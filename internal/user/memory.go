package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]Row // lower(username) -> row
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]Row)}
}

func (s *InMemoryStore) Create(_ context.Context, u User, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Username)
	if _, exists := s.users[key]; exists {
		return User{}, ErrConflict
	}
	for _, row := range s.users {
		if strings.EqualFold(row.User.Email, u.Email) {
			return User{}, ErrConflict
		}
	}

	u.CreatedAt = time.Now().UTC()
	s.users[key] = Row{User: u, PasswordHash: passwordHash}
	return u, nil
}

func (s *InMemoryStore) FindByLogin(_ context.Context, login string) (Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	login = strings.TrimSpace(login)
	if login == "" {
		return Row{}, ErrNotFound
	}
	if row, ok := s.users[strings.ToLower(login)]; ok {
		return row, nil
	}
	for _, row := range s.users {
		if strings.EqualFold(row.User.Email, login) {
			return row, nil
		}
	}
	return Row{}, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, row := range s.users {
		out = append(out, row.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *InMemoryStore) SetRole(_ context.Context, username, role string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(username)
	row, ok := s.users[key]
	if !ok {
		return User{}, ErrNotFound
	}
	row.User.Role = role
	s.users[key] = row
	return row.User, nil
}

func (s *InMemoryStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(username)
	if _, ok := s.users[key]; !ok {
		return ErrNotFound
	}
	delete(s.users, key)
	return nil
}
