package service

import (
	"context"
	"strings"
	"testing"

	"watchlist/internal/auth"
	"watchlist/internal/repository"
	"watchlist/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	db := testutil.NewTestDB(t)
	return NewAuthService(testutil.TestConfig(), repository.NewUserRepository(db))
}

func TestSignupAndSignin(t *testing.T) {
	svc := newAuthService(t)
	cfg := testutil.TestConfig()
	ctx := context.Background()

	u, token, err := svc.Signup(ctx, SignupInput{Username: " ada ", Email: "Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	claims, err := auth.ParseAccessToken(&cfg.JWT, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)
	assert.Equal(t, "ada", claims.Username)

	got, token2, err := svc.Signin(ctx, SigninInput{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token2)

	me, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)

	_, err = svc.Me(ctx, u.ID+1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSignupValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Username: "a", Email: "nope", Password: "123"})
	fields := fieldsOf(t, err)
	assert.Equal(t, "Username must be at least 2 characters long", fields["username"])
	assert.Equal(t, "Invalid email address", fields["email"])
	assert.Equal(t, "Password must be at least 6 characters long", fields["password"])

	_, _, err = svc.Signup(ctx, SignupInput{Username: strings.Repeat("x", 51), Email: "x@example.com", Password: "secret1"})
	assert.Equal(t, "Username must be less than 50 characters", fieldsOf(t, err)["username"])

	_, _, err = svc.Signup(ctx, SignupInput{Username: "ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, _, err = svc.Signup(ctx, SignupInput{Username: "ada2", Email: "ada@example.com", Password: "secret1"})
	assert.Equal(t, "Email already registered", fieldsOf(t, err)["email"])
}

func TestSigninFailuresAreUniform(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	_, _, err := svc.Signup(ctx, SignupInput{Username: "ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Signin(ctx, SigninInput{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, _, err = svc.Signin(ctx, SigninInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, _, err = svc.Signin(ctx, SigninInput{Email: "", Password: ""})
	fields := fieldsOf(t, err)
	assert.Equal(t, "Email is required", fields["email"])
	assert.Equal(t, "Password is required", fields["password"])
}
