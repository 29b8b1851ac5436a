package services_test

import (
	"context"
	"testing"
	"time"

	"bonded_server/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	store := services.NewRedisKV(mr.Addr(), "", 0)
	require.NoError(t, store.Ping(context.Background()))
	return &services.AuthService{Store: store, TokenSecret: "test-secret", TokenTTL: time.Hour}
}

func TestSignupAndTokenRoundTrip(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	account, token, err := auth.Signup(ctx, "  Alice@Campus.EDU ", "hunter22", "Alice", "Eastwood")
	require.NoError(t, err)
	assert.Equal(t, "alice@campus.edu", account.Email)
	assert.NotEmpty(t, account.ID)
	assert.NotEqual(t, "hunter22", account.PasswordHash)

	userID, err := auth.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, userID)

	fetched, err := auth.Account(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, fetched.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Signup(ctx, "alice@campus.edu", "hunter22", "Alice", "Eastwood")
	require.NoError(t, err)

	// Email comparison is normalized, so casing can't sneak a duplicate in.
	_, _, err = auth.Signup(ctx, "ALICE@campus.edu", "different", "Alice Two", "Eastwood")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestSignupValidation(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Signup(ctx, "", "hunter22", "Alice", "Eastwood")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, _, err = auth.Signup(ctx, "alice@campus.edu", "", "Alice", "Eastwood")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestLogin(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	created, _, err := auth.Signup(ctx, "alice@campus.edu", "hunter22", "Alice", "Eastwood")
	require.NoError(t, err)

	account, token, err := auth.Login(ctx, "Alice@Campus.edu", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)

	userID, err := auth.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)

	_, _, err = auth.Login(ctx, "alice@campus.edu", "wrong")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, _, err = auth.Login(ctx, "nobody@campus.edu", "hunter22")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestResolveTokenRejectsForgeries(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.ResolveToken("not-a-token")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// A token signed with a different secret never resolves.
	other := &services.AuthService{TokenSecret: "other-secret", TokenTTL: time.Hour}
	forged, err := other.IssueToken("alice")
	require.NoError(t, err)
	_, err = auth.ResolveToken(forged)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestResolveTokenRejectsExpired(t *testing.T) {
	auth := newAuthService(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	token, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.ResolveToken(token)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestAccountNotFound(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Account(context.Background(), "ghost")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
