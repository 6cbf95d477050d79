package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Record(ctx context.Context, sale Sale) (Sale, error) {
	sale.ID = uuid.New().String()
	const q = `INSERT INTO sales (id, movie_id, movie_title, quantity, unit_price, total, sold_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.pool.Exec(ctx, q,
		sale.ID, sale.MovieID, sale.MovieTitle, sale.Quantity, sale.UnitPrice, sale.Total, sale.SoldAt); err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (s *PostgresStore) List(ctx context.Context, p Period) ([]Sale, error) {
	q := `SELECT id, movie_id, movie_title, quantity, unit_price, total, sold_at FROM sales`
	var (
		conds []string
		args  []any
	)
	if !p.From.IsZero() {
		args = append(args, p.From)
		conds = append(conds, "sold_at >= $1")
	}
	if !p.To.IsZero() {
		args = append(args, p.To)
		if len(args) == 2 {
			conds = append(conds, "sold_at < $2")
		} else {
			conds = append(conds, "sold_at < $1")
		}
	}
	if len(conds) == 2 {
		q += " WHERE " + conds[0] + " AND " + conds[1]
	} else if len(conds) == 1 {
		q += " WHERE " + conds[0]
	}
	q += " ORDER BY sold_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.MovieID, &sale.MovieTitle,
			&sale.Quantity, &sale.UnitPrice, &sale.Total, &sale.SoldAt); err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Cancel(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
