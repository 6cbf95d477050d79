// Package sales keeps the sales ledger and its reporting. It shares the
// catalog with the rest of the application but is independent of the
// recommendation pipeline.
package sales

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("sale not found")
	ErrInvalidSale = errors.New("invalid sale")
)

// Sale is one recorded transaction. Total is derived at record time.
type Sale struct {
	ID         string    `json:"id"`
	MovieID    int64     `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	Total      float64   `json:"total"`
	SoldAt     time.Time `json:"sold_at"`
}

// Period bounds a ledger query. Zero values mean unbounded on that side;
// From is inclusive, To exclusive.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !t.Before(p.To) {
		return false
	}
	return true
}

// Store defines ledger persistence. Callers validate and price sales before
// Record; stores only persist.
type Store interface {
	Record(ctx context.Context, s Sale) (Sale, error)
	// List returns sales within the period, newest first.
	List(ctx context.Context, p Period) ([]Sale, error)
	Cancel(ctx context.Context, id string) error
}
