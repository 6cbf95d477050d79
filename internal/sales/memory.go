package sales

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu    sync.RWMutex
	sales map[string]Sale
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sales: make(map[string]Sale)}
}

func (s *InMemoryStore) Record(_ context.Context, sale Sale) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.ID = uuid.New().String()
	s.sales[sale.ID] = sale
	return sale, nil
}

func (s *InMemoryStore) List(_ context.Context, p Period) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		if p.contains(sale.SoldAt) {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SoldAt.Equal(out[j].SoldAt) {
			return out[i].SoldAt.After(out[j].SoldAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sales[id]; !ok {
		return ErrNotFound
	}
	delete(s.sales, id)
	return nil
}
