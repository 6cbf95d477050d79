// Package user manages accounts: registration, credential checks and the
// admin operations over them.
package user

import (
	"context"
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrConflict     = errors.New("username or email already taken")
	ErrNotFound     = errors.New("user not found")
	ErrUnauthorized = errors.New("invalid credentials")
)

// User is the public account record. The password hash never leaves the store
// layer except through Row.
type User struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Row pairs a user with their stored credential hash, for login checks.
type Row struct {
	User         User
	PasswordHash string
}

// Store defines account persistence. Usernames are unique case-insensitively.
type Store interface {
	Create(ctx context.Context, u User, passwordHash string) (User, error)
	// FindByLogin matches username or email, case-insensitive.
	FindByLogin(ctx context.Context, login string) (Row, error)
	List(ctx context.Context) ([]User, error)
	SetRole(ctx context.Context, username, role string) (User, error)
	Delete(ctx context.Context, username string) error
}
