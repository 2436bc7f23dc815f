package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes embedded in claims so an email-verification token
// can never be replayed as an access token.
const (
	PurposeAccess       = "access"
	PurposeVerification = "email_verification"
)

// Token errors.
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongPurpose = errors.New("token issued for a different purpose")
)

// Claims are the signed statements carried by every token the service issues.
type Claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
}

// TokenManager issues and verifies HS256-signed bearer tokens.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
	verifyTTL time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret and
// validity windows for access and email-verification tokens.
func NewTokenManager(secret string, accessTTL, verifyTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		verifyTTL: verifyTTL,
	}
}

// IssueAccessToken signs a bearer token embedding the user id and display name.
// Each token carries a unique jti so that two logins in the same second still
// produce distinct tokens and can be revoked independently.
func (m *TokenManager) IssueAccessToken(userID, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
		Name:    name,
		Purpose: PurposeAccess,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// IssueVerificationToken signs a short-lived token carrying the user's email.
func (m *TokenManager) IssueVerificationToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.verifyTTL)),
		},
		Email:   email,
		Purpose: PurposeVerification,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the token signature and expiry and returns its claims.
// Returns ErrWrongPurpose if the token was issued for a different purpose.
func (m *TokenManager) Verify(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}

// ExpiresAt decodes the expiry of a token without verifying the signature.
// Used on logout, where the presented token has already passed the guard.
func (m *TokenManager) ExpiresAt(tokenString string) (time.Time, error) {
	claims := &Claims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, ErrInvalidToken
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}

	return claims.ExpiresAt.Time, nil
}
