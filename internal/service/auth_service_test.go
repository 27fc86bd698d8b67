package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
)

type mockSessionStore struct {
	flags map[string]string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{flags: map[string]string{}}
}

func (m *mockSessionStore) Put(ctx context.Context, tokenID, role string, ttl time.Duration) error {
	m.flags[tokenID] = role
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, tokenID string) (string, error) {
	return m.flags[tokenID], nil
}

func (m *mockSessionStore) Delete(ctx context.Context, tokenID string) error {
	delete(m.flags, tokenID)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockSessionStore) {
	verifier, err := NewStaticVerifier("admin", "s3cret-pass")
	require.NoError(t, err)
	sessions := newMockSessionStore()
	svc := NewAuthService(verifier, sessions, nil, nil, AuthConfig{
		Secret:     "test-signing-secret",
		Expiration: time.Hour,
		Issuer:     "academy-api",
	})
	return svc, sessions
}

func TestStaticVerifier(t *testing.T) {
	verifier, err := NewStaticVerifier("admin", "s3cret-pass")
	require.NoError(t, err)

	operator, err := verifier.Verify(context.Background(), "admin", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "admin", operator.Username)
	assert.Equal(t, models.RoleAdmin, operator.Role)

	_, err = verifier.Verify(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = verifier.Verify(context.Background(), "root", "s3cret-pass")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogin(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, resp.Operator.Role)
	assert.Len(t, sessions.flags, 1, "login must register a session flag")

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	require.NoError(t, svc.CurrentSession(context.Background(), claims))
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Empty(t, sessions.flags, "rejected login must not create a session")
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogoutInvalidatesLiveToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))

	// The token still parses but the session flag is gone.
	claims, err = svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	err = svc.CurrentSession(context.Background(), claims)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc, _ := newAuthFixture(t)

	other := NewAuthService(nil, nil, nil, nil, AuthConfig{Secret: "a-different-secret", Expiration: time.Hour})
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
