package sales

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/example/cineflix/internal/catalog"
)

// Ledger validates and prices sales against the catalog before persisting
// them, and produces reports over the stored ledger.
type Ledger struct {
	store   Store
	catalog catalog.Store
	log     *zap.Logger
}

func NewLedger(store Store, cat catalog.Store, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, catalog: cat, log: log}
}

// RecordSale records a sale of quantity units at unitPrice. The movie must be
// in the catalog; its title is denormalized onto the sale so the ledger stays
// readable after catalog deletions.
func (l *Ledger) RecordSale(ctx context.Context, movieID int64, quantity int, unitPrice float64) (Sale, error) {
	if quantity < 1 {
		return Sale{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidSale)
	}
	if unitPrice <= 0 {
		return Sale{}, fmt.Errorf("%w: unit price must be positive", ErrInvalidSale)
	}

	m, err := l.catalog.Get(ctx, movieID)
	if err != nil {
		return Sale{}, err
	}

	total := math.Round(float64(quantity)*unitPrice*100) / 100
	return l.store.Record(ctx, Sale{
		MovieID:    m.ID,
		MovieTitle: m.Title,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Total:      total,
		SoldAt:     time.Now().UTC(),
	})
}

// List returns the ledger newest first, optionally bounded by a period.
func (l *Ledger) List(ctx context.Context, p Period) ([]Sale, error) {
	return l.store.List(ctx, p)
}

// Cancel removes a sale from the ledger.
func (l *Ledger) Cancel(ctx context.Context, id string) error {
	return l.store.Cancel(ctx, id)
}
