package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/cineflix/internal/rating"
)

// ErrInvalidUsername rejects empty or oversized usernames.
var ErrInvalidUsername = errors.New("invalid username")

// Recomputer refreshes a movie's aggregate rating after its signals change.
type Recomputer interface {
	RecomputeAggregate(ctx context.Context, movieID int64) (float64, error)
}

// Service implements account workflows over a Store. Deleting an account also
// drops its ratings and recomputes the aggregates they fed, so stale signals
// stop influencing recommendations immediately.
type Service struct {
	store     Store
	ratings   rating.Store
	recompute Recomputer
	log       *zap.Logger
}

func NewService(store Store, ratings rating.Store, rec Recomputer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, ratings: ratings, recompute: rec, log: log}
}

// Register validates the username, email and password policy, hashes the
// password and creates the account with the default role.
func (s *Service) Register(ctx context.Context, username, email, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 64 {
		return User{}, fmt.Errorf("%w: must be 1-64 characters", ErrInvalidUsername)
	}
	if err := CheckEmail(email); err != nil {
		return User{}, err
	}
	if err := CheckPassword(password); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.store.Create(ctx, User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Role:     RoleUser,
	}, string(hash))
	if err != nil {
		return User{}, err
	}
	s.log.Info("user registered", zap.String("username", u.Username))
	return u, nil
}

// Login checks the credentials and returns the account. Unknown login and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (User, error) {
	row, err := s.store.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrUnauthorized
	}
	return row.User, nil
}

// List returns every account, for admin views.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// Promote grants the admin role.
func (s *Service) Promote(ctx context.Context, username string) (User, error) {
	return s.store.SetRole(ctx, username, RoleAdmin)
}

// Delete removes the account and all of its ratings, then recomputes the
// aggregate of every movie those ratings contributed to.
func (s *Service) Delete(ctx context.Context, username string) error {
	rated, err := s.ratings.UserRatings(ctx, username)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, username); err != nil {
		return err
	}
	if err := s.ratings.DeleteUser(ctx, username); err != nil {
		return err
	}
	if s.recompute != nil {
		ids := make([]int64, 0, len(rated))
		for id := range rated {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if _, err := s.recompute.RecomputeAggregate(ctx, id); err != nil {
				return err
			}
		}
	}
	s.log.Info("user deleted", zap.String("username", username))
	return nil
}

// BootstrapAdmin promotes the named account at startup. A missing account is
// logged, not an error: the env var may name a user that registers later.
func (s *Service) BootstrapAdmin(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	if _, err := s.store.SetRole(ctx, username, RoleAdmin); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("admin bootstrap skipped, account not found", zap.String("username", username))
			return nil
		}
		return err
	}
	s.log.Info("admin bootstrap applied", zap.String("username", username))
	return nil
}
