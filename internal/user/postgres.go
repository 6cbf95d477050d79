package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, u User, passwordHash string) (User, error) {
	const q = `INSERT INTO users (username, email, role, password_hash, created_at)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING username, email, role, created_at`
	err := s.pool.QueryRow(ctx, q, u.Username, u.Email, u.Role, passwordHash, time.Now().UTC()).
		Scan(&u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) FindByLogin(ctx context.Context, login string) (Row, error) {
	const q = `SELECT username, email, role, password_hash, created_at
	           FROM users
	           WHERE lower(username) = lower($1) OR lower(email) = lower($1)
	           LIMIT 1`
	var row Row
	err := s.pool.QueryRow(ctx, q, login).
		Scan(&row.User.Username, &row.User.Email, &row.User.Role, &row.PasswordHash, &row.User.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, ErrNotFound
		}
		return Row{}, err
	}
	return row, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]User, error) {
	const q = `SELECT username, email, role, created_at FROM users ORDER BY username`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetRole(ctx context.Context, username, role string) (User, error) {
	const q = `UPDATE users SET role = $2 WHERE lower(username) = lower($1)
	           RETURNING username, email, role, created_at`
	var u User
	err := s.pool.QueryRow(ctx, q, username, role).
		Scan(&u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) Delete(ctx context.Context, username string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE lower(username) = lower($1)`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
