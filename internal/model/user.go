// Package model defines domain entities for the application.
package model

import "time"

// User represents an account in the user directory.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	ConfirmedEmail bool      `json:"confirmed_email"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Sanitized returns the outward-facing projection of the user.
// The password hash never crosses the API boundary.
func (u *User) Sanitized() *UserProjection {
	return &UserProjection{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// UserProjection is the sanitized view of a user returned by the API.
type UserProjection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
