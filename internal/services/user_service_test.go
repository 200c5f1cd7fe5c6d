package services

import (
	"context"
	"storefront-service/internal/auth"
	"storefront-service/internal/config"
	"storefront-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *auth.Issuer {
	return auth.NewIssuer(config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour})
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		email       string
		password    string
		expectedErr error
	}{
		{name: "valid", username: "alice", email: "Alice@Example.com", password: "password1"},
		{name: "missing username", username: " ", email: "a@b.co", password: "password1", expectedErr: domain.ErrValidation},
		{name: "bad email", username: "alice", email: "nope", password: "password1", expectedErr: domain.ErrValidation},
		{name: "short password", username: "alice", email: "a@b.co", password: "short", expectedErr: domain.ErrValidation},
		{name: "email taken", username: "alice", email: "shopper@example.com", password: "password1", expectedErr: domain.ErrValidation},
		{name: "username taken", username: "shopper", email: "new@example.com", password: "password1", expectedErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			u, err := NewUserService(store, newTestIssuer()).Register(context.Background(), tt.username, tt.email, tt.password)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, u.ID)
			assert.Equal(t, "alice@example.com", u.Email)
			assert.Equal(t, domain.RoleUser, u.Role)
			assert.NotEqual(t, tt.password, u.PasswordHash)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	issuer := newTestIssuer()
	svc := NewUserService(store, issuer)
	registered, err := svc.Register(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	tests := []struct {
		name        string
		login       string
		password    string
		expectedErr error
	}{
		{name: "by username", login: "alice", password: "password1"},
		{name: "by email", login: "ALICE@example.com", password: "password1"},
		{name: "wrong password", login: "alice", password: "password2", expectedErr: domain.ErrUnauthorized},
		{name: "unknown user", login: "bob", password: "password1", expectedErr: domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, u, err := svc.Login(ctx, tt.login, tt.password)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, pair)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, u.ID)

			claims, err := issuer.Parse(pair.Access, auth.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, domain.Identity{UserID: registered.ID}, claims.Identity())
		})
	}
}

func TestUserService_Refresh(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	issuer := newTestIssuer()
	svc := NewUserService(store, issuer)
	_, err := svc.Register(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)
	pair, u, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = svc.EnsureAdmin(ctx, "alice", "alice@example.com", "password2")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	claims, err := issuer.Parse(access, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: u.ID, IsAdmin: true}, claims.Identity())
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	svc := NewUserService(store, newTestIssuer())

	u, created, err := svc.EnsureAdmin(ctx, "root", "root@example.com", "password1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, u.IsAdmin())

	promoted, created, err := svc.EnsureAdmin(ctx, "shopper", "shopper@example.com", "password1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, shopper.UserID, promoted.ID)

	stored, err := store.Repos().Users.FindByID(ctx, shopper.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)

	_, _, err = svc.Login(ctx, "shopper", "password1")
	assert.NoError(t, err)
}
