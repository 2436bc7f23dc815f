package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/model"
	"github.com/filmstack/filmstack/internal/repository"
)

// UserService implements the user directory: CRUD over user records with
// hashed passwords and sanitized outward projections.
type UserService struct {
	users UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// Create registers a new user with a hashed password and an unconfirmed email.
// Email uniqueness is enforced twice: an explicit existence check here and the
// unique index underneath, both surfacing ErrEmailExists.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	_, err := s.users.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             newID(),
		Name:           input.Name,
		Email:          input.Email,
		Password:       hashed,
		ConfirmedEmail: false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail returns a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserInput defines the mutable fields of a user.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Update mutates a user record. A password update is re-hashed before persisting.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		user.Email = *input.Email
		// A new address has not been through the confirmation round-trip.
		user.ConfirmedEmail = false
	}
	if input.Password != nil {
		hashed, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// SetConfirmedEmail flips the confirmed-email flag for the user with the
// given address. Used by the explicit email-confirmation transition.
func (s *UserService) SetConfirmedEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.ConfirmedEmail {
		return user, nil
	}

	user.ConfirmedEmail = true
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to confirm email: %w", err)
	}

	return user, nil
}
