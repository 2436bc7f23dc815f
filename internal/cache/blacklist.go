package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// blacklistKeyPrefix is the Redis key prefix for revoked bearer tokens.
// The key carries a hash of the token, never the token itself.
const blacklistKeyPrefix = "blacklist:"

// blacklistKey derives the Redis key for a token.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:16])
}

// SetBlacklisted marks a token as revoked until its natural expiry.
// Tokens already past expiry are not cached; the database row still
// rejects them if one exists.
func (c *Cache) SetBlacklisted(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache blacklisted token: %w", err)
	}

	return nil
}

// IsBlacklisted reports whether the token is in the revocation cache.
// A miss is not authoritative; callers fall back to the database.
func (c *Cache) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist cache: %w", err)
	}

	return n > 0, nil
}
