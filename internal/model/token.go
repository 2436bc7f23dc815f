package model

import "time"

// BlacklistedToken is a bearer token revoked before its natural expiry.
// Rows are never swept; ExpiresAt is advisory.
type BlacklistedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the authenticated principal attached to a request
// after the bearer guard has admitted it.
type Identity struct {
	UserID    string
	Name      string
	Token     string
	ExpiresAt time.Time
}
