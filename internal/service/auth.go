package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/mail"
	"github.com/filmstack/filmstack/internal/metrics"
	"github.com/filmstack/filmstack/internal/model"
	"github.com/filmstack/filmstack/internal/repository"
)

// dummyHash is compared against when the email is unknown, so login takes
// the same time whether or not the account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Session is the result of a successful login or registration.
type Session struct {
	Token string
	User  *model.UserProjection
}

// AuthService composes the credential store, token issuer and blacklist
// into login, registration, logout and email-verification flows.
type AuthService struct {
	directory *UserService
	users     UserStore
	tokens    TokenStore
	blacklist BlacklistCache
	manager   *auth.TokenManager
	mailer    mail.Sender
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewAuthService creates a new AuthService. All collaborators are required
// except metrics, which defaults to a noop recorder.
func NewAuthService(
	directory *UserService,
	users UserStore,
	tokens TokenStore,
	blacklist BlacklistCache,
	manager *auth.TokenManager,
	mailer mail.Sender,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		directory: directory,
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		manager:   manager,
		mailer:    mailer,
		logger:    logger,
		metrics:   recorder,
	}
}

// Login checks the credentials and issues a bearer token on success.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a hash comparison so timing does not reveal the miss.
			_ = auth.VerifyPassword(password, dummyHash)
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := auth.VerifyPassword(password, user.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.manager.IssueAccessToken(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()
	return &Session{Token: token, User: user.Sanitized()}, nil
}

// Register creates a new unconfirmed user and logs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	user, err := s.directory.Create(ctx, CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.manager.IssueAccessToken(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncRegistration()
	return &Session{Token: token, User: user.Sanitized()}, nil
}

// Logout revokes the presented token until its natural expiry.
// Revoking an already-revoked token returns ErrTokenRevoked.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	expiresAt, err := s.manager.ExpiresAt(token)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.tokens.BlacklistToken(ctx, token, expiresAt); err != nil {
		if errors.Is(err, repository.ErrTokenBlacklisted) {
			return ErrTokenRevoked
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	// Best effort: the database row is the source of truth.
	if err := s.blacklist.SetBlacklisted(ctx, token, expiresAt); err != nil {
		s.logger.Warn("failed to cache blacklisted token", slog.String("error", err.Error()))
	}

	s.metrics.IncLogout()
	return nil
}

// IsBlacklisted reports whether the token has been revoked.
// The Redis mirror answers first; a miss falls back to the database and
// backfills the cache on a hit.
func (s *AuthService) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	cached, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		s.logger.Warn("blacklist cache check failed", slog.String("error", err.Error()))
	} else if cached {
		s.metrics.IncBlacklistCacheHit()
		return true, nil
	}
	s.metrics.IncBlacklistCacheMiss()

	revoked, err := s.tokens.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return false, err
	}

	if revoked {
		if bt, err := s.tokens.GetBlacklistedToken(ctx, token); err == nil {
			_ = s.blacklist.SetBlacklisted(ctx, token, bt.ExpiresAt)
		}
	}

	return revoked, nil
}

// ValidateAccessToken verifies an access token and resolves its identity.
func (s *AuthService) ValidateAccessToken(token string) (*model.Identity, error) {
	claims, err := s.manager.Verify(token, auth.PurposeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &model.Identity{
		UserID:    claims.Subject,
		Name:      claims.Name,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ChangePassword re-hashes and persists a new password after checking the
// current one. The confirmation must match regardless of the current
// password's correctness.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword, confirmation string) error {
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := auth.VerifyPassword(current, user.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrWrongPassword
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = hashed
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to persist password: %w", err)
	}

	return nil
}

// SendVerificationToken issues a short-lived email-verification token and
// delivers it to the user's mailbox.
func (s *AuthService) SendVerificationToken(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.manager.IssueVerificationToken(user.Email)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	if err := s.mailer.SendVerificationToken(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to deliver verification token: %w", err)
	}

	return nil
}

// VerifyToken checks an email-verification token's signature and expiry.
// It is a pure read: no state changes. Confirming the email is a separate,
// explicit transition (ConfirmEmail).
func (s *AuthService) VerifyToken(token string) error {
	if _, err := s.manager.Verify(token, auth.PurposeVerification); err != nil {
		s.metrics.IncTokenVerification("invalid")
		return ErrInvalidToken
	}

	s.metrics.IncTokenVerification("valid")
	return nil
}

// ConfirmEmail validates a verification token and marks the embedded email
// address as confirmed.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.manager.Verify(token, auth.PurposeVerification)
	if err != nil {
		s.metrics.IncTokenVerification("invalid")
		return nil, ErrInvalidToken
	}
	s.metrics.IncTokenVerification("valid")

	user, err := s.directory.SetConfirmedEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}

	return user, nil
}
