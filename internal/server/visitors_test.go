package server

import (
	"testing"
	"time"

	"github.com/jonathan/agrimrv-lite/internal/auth"
	"github.com/jonathan/agrimrv-lite/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVisitorStore(ttl time.Duration) (*visitorStore, *time.Time) {
	provider := auth.NewUserService(auth.NewMemoryStore(), &config.PasswordConfig{BcryptCost: config.MinBcryptCost}, zap.NewNop())
	vs := newVisitorStore(provider, zap.NewNop(), ttl)
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	vs.now = func() time.Time { return now }
	return vs, &now
}

func TestVisitorStore_Get(t *testing.T) {
	vs, _ := newTestVisitorStore(time.Hour)

	a := vs.get("a")
	require.NotNil(t, a.notes)
	require.NotNil(t, a.register)
	require.NotNil(t, a.login)

	assert.Same(t, a, vs.get("a"))
	assert.NotSame(t, a, vs.get("b"))
	assert.Equal(t, 2, vs.len())
}

func TestVisitorStore_Sweep(t *testing.T) {
	vs, now := newTestVisitorStore(time.Hour)

	vs.get("idle")
	*now = now.Add(45 * time.Minute)
	vs.get("active")

	expired := vs.sweep(now.Add(30 * time.Minute))
	assert.Equal(t, []string{"idle"}, expired)
	assert.Equal(t, 1, vs.len())

	assert.Empty(t, vs.sweep(*now))
}
