package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"

	"app/internal/model"
)

func TestRegisterAndLookup(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()

	created := env.register(t, "ana@x.com", "Ana")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("contraseña1")))

	u, err := env.users.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.False(t, u.IsPremium)
}

func TestGetByEmailUnknown(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	_, err := env.users.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	env.register(t, "ana@x.com", "Ana")

	_, err := env.users.Register(context.Background(), &model.User{Email: "ana@x.com"}, "otracontraseña")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestVerifyCredentialsDoesNotLeakWhichPartFailed(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	_, badPassword := env.users.VerifyCredentials(ctx, "ana@x.com", "equivocada")
	_, unknownEmail := env.users.VerifyCredentials(ctx, "nadie@x.com", "contraseña1")
	assert.ErrorIs(t, badPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, badPassword, unknownEmail)

	u, err := env.users.VerifyCredentials(ctx, "ana@x.com", "contraseña1")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", u.Email)
}

func TestPremiumAndAdminChecksDefaultToFalse(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()

	assert.False(t, env.users.IsPremium(ctx, "nadie@x.com"))
	assert.False(t, env.users.IsAdmin(ctx, "nadie@x.com"))
}

func TestUpgradeToPremiumLifecycle(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "a@x.com", "A")

	assert.False(t, env.users.IsPremium(ctx, "a@x.com"))
	require.NoError(t, env.users.UpgradeToPremium(ctx, "a@x.com"))
	assert.True(t, env.users.IsPremium(ctx, "a@x.com"))
}

func TestUpgradeUnknownUser(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	err := env.users.UpgradeToPremium(context.Background(), "nadie@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileTouchesOnlyGivenFields(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	name := "Ana María"
	require.NoError(t, env.users.UpdateProfile(ctx, "ana@x.com", model.UserUpdate{Name: &name}))

	u, err := env.users.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", u.Name)

	hash := u.PasswordHash
	assert.NotEmpty(t, hash)
}
