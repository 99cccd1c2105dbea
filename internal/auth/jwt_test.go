package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/agrimrv-lite/internal/config"
	"github.com/jonathan/agrimrv-lite/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-sessions",
		ExpirationHours: 24,
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	session := &types.Session{UserID: uuid.New(), Email: "farmer@example.com"}

	token, err := svc.GenerateToken(session)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := svc.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID.String(), claims.Subject)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTService_AnonymousSession(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.GenerateToken(nil)
	assert.Error(t, err)

	_, err = svc.GenerateToken(&types.Session{Email: "no-id@example.com"})
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(&types.Session{UserID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := newTestJWTService().GenerateToken(&types.Session{UserID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "a-completely-different-secret", ExpirationHours: 24})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestJWTService_Malformed(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed token")
}
