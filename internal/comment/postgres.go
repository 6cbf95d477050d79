package comment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, c Comment) (Comment, error) {
	c.ID = uuid.New().String()
	c.PostedAt = time.Now().UTC()
	const q = `INSERT INTO comments (id, movie_id, username, stars, body, posted_at)
	           VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, q, c.ID, c.MovieID, c.User, c.Stars, c.Body, c.PostedAt); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *PostgresStore) ForMovie(ctx context.Context, movieID int64) ([]Comment, error) {
	const q = `SELECT id, movie_id, username, stars, body, posted_at
	           FROM comments WHERE movie_id = $1
	           ORDER BY posted_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.MovieID, &c.User, &c.Stars, &c.Body, &c.PostedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Comment, error) {
	const q = `SELECT id, movie_id, username, stars, body, posted_at FROM comments WHERE id = $1`
	var c Comment
	err := s.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.MovieID, &c.User, &c.Stars, &c.Body, &c.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, ErrNotFoundOrForbidden
		}
		return Comment{}, err
	}
	return c, nil
}

func (s *PostgresStore) Update(ctx context.Context, id, user, body string, stars int) (Comment, error) {
	const q = `UPDATE comments SET body = $3, stars = $4, posted_at = $5
	           WHERE id = $1 AND username = $2
	           RETURNING id, movie_id, username, stars, body, posted_at`
	var c Comment
	err := s.pool.QueryRow(ctx, q, id, user, body, stars, time.Now().UTC()).
		Scan(&c.ID, &c.MovieID, &c.User, &c.Stars, &c.Body, &c.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, ErrNotFoundOrForbidden
		}
		return Comment{}, err
	}
	return c, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, user string, admin bool) error {
	q := `DELETE FROM comments WHERE id = $1 AND username = $2`
	args := []any{id, user}
	if admin {
		q = `DELETE FROM comments WHERE id = $1`
		args = []any{id}
	}
	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}
