package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmstack/filmstack/internal/auth"
)

func TestUserService_Create(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.False(t, user.ConfirmedEmail)
	assert.False(t, user.CreatedAt.IsZero())

	// Stored as a bcrypt hash, never plaintext.
	assert.NotEqual(t, "hunter22", user.Password)
	assert.NoError(t, auth.VerifyPassword("hunter22", user.Password))
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Name: "Jane", Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserInput{Name: "Impostor", Email: "jane@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserService_GetAndGetByEmail(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{Name: "Jane", Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)

	byID, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)

	byEmail, err := svc.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_List(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Create(ctx, CreateUserInput{Name: "u", Email: email, Password: "hunter22"})
		require.NoError(t, err)
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserService_Update(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{Name: "Jane", Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		name := "Jane Q. Doe"
		updated, err := svc.Update(ctx, created.ID, UpdateUserInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Jane Q. Doe", updated.Name)
		assert.Equal(t, "jane@example.com", updated.Email)
	})

	t.Run("email change resets confirmation", func(t *testing.T) {
		confirmed, err := svc.SetConfirmedEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		require.True(t, confirmed.ConfirmedEmail)

		email := "jane.doe@example.com"
		updated, err := svc.Update(ctx, created.ID, UpdateUserInput{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, email, updated.Email)
		assert.False(t, updated.ConfirmedEmail)
	})

	t.Run("password update is re-hashed", func(t *testing.T) {
		password := "new-password"
		updated, err := svc.Update(ctx, created.ID, UpdateUserInput{Password: &password})
		require.NoError(t, err)
		assert.NotEqual(t, password, updated.Password)
		assert.NoError(t, auth.VerifyPassword(password, updated.Password))
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(ctx, "missing", UpdateUserInput{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Name: "Jane", Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, CreateUserInput{Name: "John", Email: "john@example.com", Password: "hunter22"})
	require.NoError(t, err)

	taken := "jane@example.com"
	_, err = svc.Update(ctx, other.ID, UpdateUserInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserService_Delete(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{Name: "Jane", Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrUserNotFound)
}

func TestUserService_SetConfirmedEmail_Idempotent(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Name: "Jane", Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)

	first, err := svc.SetConfirmedEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, first.ConfirmedEmail)

	second, err := svc.SetConfirmedEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, second.ConfirmedEmail)

	_, err = svc.SetConfirmedEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
