package rating

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists ratings in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Set(ctx context.Context, r Rating) error {
	const q = `INSERT INTO ratings (username, movie_id, stars, rated_at)
	           VALUES ($1, $2, $3, $4)
	           ON CONFLICT (username, movie_id) DO UPDATE SET
	             stars = EXCLUDED.stars,
	             rated_at = EXCLUDED.rated_at`
	_, err := s.pool.Exec(ctx, q, r.User, r.MovieID, r.Stars, r.RatedAt)
	return err
}

func (s *PostgresStore) UserRatings(ctx context.Context, user string) (map[int64]Rating, error) {
	const q = `SELECT username, movie_id, stars, rated_at FROM ratings WHERE username = $1`
	rows, err := s.pool.Query(ctx, q, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Rating)
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.User, &r.MovieID, &r.Stars, &r.RatedAt); err != nil {
			return nil, err
		}
		out[r.MovieID] = r
	}
	return out, rows.Err()
}

func (s *PostgresStore) MovieRatings(ctx context.Context, movieID int64) ([]Rating, error) {
	const q = `SELECT username, movie_id, stars, rated_at FROM ratings WHERE movie_id = $1`
	rows, err := s.pool.Query(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.User, &r.MovieID, &r.Stars, &r.RatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteUser(ctx context.Context, user string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM ratings WHERE username = $1`, user)
	return err
}
