package navigation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/agrimrv-lite/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSignOuter struct {
	calls int
	err   error
}

func (r *recordingSignOuter) SignOut(_ context.Context, _ *types.Session) error {
	r.calls++
	return r.err
}

func TestNavigator_GoBackAndForward(t *testing.T) {
	router := NewRedirectRouter(PathProofs)
	nav := NewNavigator(DefaultTable(), router)

	assert.True(t, nav.GoBack())
	assert.Equal(t, PathFarmerInput, router.CurrentPath())

	assert.True(t, nav.GoForward())
	assert.True(t, nav.GoForward())
	assert.Equal(t, PathDashboard, router.CurrentPath())
	assert.Equal(t, 3, router.Moves())
}

func TestNavigator_NoOpAtEdges(t *testing.T) {
	router := NewRedirectRouter(PathHome)
	nav := NewNavigator(DefaultTable(), router)

	assert.False(t, nav.CanGoBack())
	assert.False(t, nav.GoBack())
	_, moved := router.Target()
	assert.False(t, moved)

	router = NewRedirectRouter(PathRegister)
	nav = NewNavigator(DefaultTable(), router)
	assert.False(t, nav.GoForward())
	assert.Equal(t, 0, router.Moves())
}

func TestNavigator_UnknownPathIsNoOp(t *testing.T) {
	router := NewRedirectRouter("/not-listed")
	nav := NewNavigator(DefaultTable(), router)

	assert.False(t, nav.CanGoBack())
	assert.False(t, nav.CanGoForward())
	assert.False(t, nav.GoBack())
	assert.False(t, nav.GoForward())
	assert.Equal(t, "/not-listed", router.CurrentPath())
}

func TestNavigator_GoHome(t *testing.T) {
	router := NewRedirectRouter(PathDashboard)
	NewNavigator(DefaultTable(), router).GoHome()

	target, moved := router.Target()
	assert.True(t, moved)
	assert.Equal(t, PathHome, target)
}

func TestNavigator_LogoutCallsSignOutOnce(t *testing.T) {
	router := NewRedirectRouter(PathDashboard)
	nav := NewNavigator(DefaultTable(), router)
	so := &recordingSignOuter{}

	err := nav.Logout(context.Background(), so, &types.Session{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, so.calls)
	assert.Equal(t, 0, router.Moves())

	so.err = errors.New("provider down")
	assert.Error(t, nav.Logout(context.Background(), so, nil))
}
