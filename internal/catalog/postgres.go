package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const movieColumns = `id, title, director, genre, year, aggregate_rating, actors, added_at`

func scanMovie(row pgx.Row) (Movie, error) {
	var m Movie
	var actorsJSON []byte
	if err := row.Scan(&m.ID, &m.Title, &m.Director, &m.Genre, &m.Year, &m.AggregateRating, &actorsJSON, &m.AddedAt); err != nil {
		return Movie{}, err
	}
	_ = json.Unmarshal(actorsJSON, &m.Actors)
	return m, nil
}

func (s *PostgresStore) Add(ctx context.Context, in MovieInput) (Movie, error) {
	if err := in.Validate(); err != nil {
		return Movie{}, err
	}
	actorsJSON, _ := json.Marshal(in.Actors)
	row := s.db.QueryRow(ctx, `
INSERT INTO movies (title, director, genre, year, aggregate_rating, actors, added_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+movieColumns,
		strings.TrimSpace(in.Title), strings.TrimSpace(in.Director), strings.TrimSpace(in.Genre),
		in.Year, in.InitialRating, actorsJSON, time.Now().UTC())

	m, err := scanMovie(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Movie{}, ErrDuplicateTitle
		}
		return Movie{}, fmt.Errorf("insert movie: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Movie, error) {
	m, err := scanMovie(s.db.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, err
	}
	return m, nil
}

func (s *PostgresStore) GetByTitle(ctx context.Context, title string) (Movie, error) {
	m, err := scanMovie(s.db.QueryRow(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE lower(title) = lower($1) LIMIT 1`, strings.TrimSpace(title)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, err
	}
	return m, nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Movie, error) {
	q := `SELECT ` + movieColumns + ` FROM movies`
	var conds []string
	var args []any
	if f.Genre != "" {
		args = append(args, f.Genre)
		conds = append(conds, fmt.Sprintf("lower(genre) = lower($%d)", len(args)))
	}
	if f.Year != 0 {
		args = append(args, f.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+strings.ToLower(f.Query)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(lower(title) LIKE $%d OR lower(director) LIKE $%d OR lower(actors::text) LIKE $%d)", n, n, n))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	switch f.Sort {
	case SortByRating:
		q += " ORDER BY aggregate_rating DESC, title ASC"
	case SortByAdded:
		q += " ORDER BY added_at DESC, title ASC"
	default:
		q += " ORDER BY title ASC"
	}

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, id int64, in MovieInput) (Movie, error) {
	if err := in.Validate(); err != nil {
		return Movie{}, err
	}
	actorsJSON, _ := json.Marshal(in.Actors)
	row := s.db.QueryRow(ctx, `
UPDATE movies
SET title = $2, director = $3, genre = $4, year = $5, actors = $6
WHERE id = $1
RETURNING `+movieColumns,
		id, strings.TrimSpace(in.Title), strings.TrimSpace(in.Director), strings.TrimSpace(in.Genre), in.Year, actorsJSON)

	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Movie{}, ErrDuplicateTitle
		}
		return Movie{}, err
	}
	return m, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetAggregateRating(ctx context.Context, id int64, rating float64) error {
	tag, err := s.db.Exec(ctx, `UPDATE movies SET aggregate_rating = $2 WHERE id = $1`, id, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByGenre: make(map[string]int), ByYear: make(map[int]int)}

	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(aggregate_rating), 0) FROM movies`,
	).Scan(&st.TotalMovies, &st.MeanRating); err != nil {
		return Stats{}, err
	}

	rows, err := s.db.Query(ctx, `SELECT genre, year, COUNT(*) FROM movies GROUP BY genre, year`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var genre string
		var year, n int
		if err := rows.Scan(&genre, &year, &n); err != nil {
			return Stats{}, err
		}
		st.ByGenre[genre] += n
		st.ByYear[year] += n
	}
	return st, rows.Err()
}
