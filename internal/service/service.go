// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/filmstack/filmstack/internal/model"
	"github.com/filmstack/filmstack/internal/repository"
)

// Service errors. Handlers map these to HTTP statuses.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token already revoked")
	ErrEmailNotConfirmed  = errors.New("user email has not been confirmed")
	ErrInvalidSortField   = errors.New("invalid sort field")
)

// UserStore is the persistence surface the services need for users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// TokenStore persists the durable token blacklist.
type TokenStore interface {
	BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	GetBlacklistedToken(ctx context.Context, token string) (*model.BlacklistedToken, error)
}

// BlacklistCache is the fast-path mirror of the token blacklist.
// A cache miss is never authoritative.
type BlacklistCache interface {
	SetBlacklisted(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// MovieStore is the read-only persistence surface for the catalog.
type MovieStore interface {
	ListMovies(ctx context.Context, filter repository.MovieFilter, offset, limit int) ([]*model.Movie, int, error)
}

// newID generates a lexicographically sortable unique identifier.
func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
