package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/filmstack/filmstack/internal/model"
)

// Common errors for blacklist repository operations.
var (
	// ErrTokenBlacklisted is returned when inserting a token that is already revoked.
	ErrTokenBlacklisted = errors.New("token already blacklisted")
	// ErrTokenNotFound is returned when looking up a token that was never revoked.
	ErrTokenNotFound = errors.New("token not found in blacklist")
)

// BlacklistToken inserts a revoked token with its natural expiry.
// The token value is the primary key, so a repeated insert fails.
func (r *Repository) BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO blacklisted_tokens (token, expires_at, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, token, expiresAt, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTokenBlacklisted
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// IsTokenBlacklisted checks whether a token has been revoked.
// Expiry is advisory; membership alone rejects the token.
func (r *Repository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return exists, nil
}

// GetBlacklistedToken retrieves a blacklist entry, mainly for diagnostics.
func (r *Repository) GetBlacklistedToken(ctx context.Context, token string) (*model.BlacklistedToken, error) {
	query := `SELECT token, expires_at, created_at FROM blacklisted_tokens WHERE token = $1`

	var bt model.BlacklistedToken
	err := r.pool.QueryRow(ctx, query, token).Scan(&bt.Token, &bt.ExpiresAt, &bt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get blacklisted token: %w", err)
	}

	return &bt, nil
}
