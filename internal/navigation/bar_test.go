package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jonathan/agrimrv-lite/internal/types"
	"github.com/stretchr/testify/assert"
)

func labels(actions []Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Label)
	}
	return out
}

func TestBuildBar_Anonymous(t *testing.T) {
	bar := BuildBar(DefaultTable(), PathHome, nil)

	assert.False(t, bar.SignedIn)
	assert.Equal(t, []string{"Login", "Register"}, labels(bar.Auth))
	assert.False(t, bar.Back.Enabled)
	assert.True(t, bar.Forward.Enabled)
	assert.Equal(t, PathFarmerInput, bar.Forward.Path)
	assert.True(t, bar.Home.Enabled)
}

func TestBuildBar_SignedIn(t *testing.T) {
	session := &types.Session{UserID: uuid.New(), Email: "priya@example.com"}
	bar := BuildBar(DefaultTable(), PathProofs, session)

	assert.True(t, bar.SignedIn)
	assert.Equal(t, "priya@example.com", bar.DisplayName)

	want := []Action{
		{Label: "Dashboard", Path: PathDashboard, Method: "GET", Enabled: true},
		{Label: "Logout", Path: LogoutPath, Method: "POST", Enabled: true, Style: "destructive"},
	}
	if diff := cmp.Diff(want, bar.Auth); diff != "" {
		t.Errorf("auth actions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PathFarmerInput, bar.Back.Path)
	assert.Equal(t, PathDashboard, bar.Forward.Path)
}

func TestBuildBar_UnknownPath(t *testing.T) {
	bar := BuildBar(DefaultTable(), "/missing", nil)
	assert.False(t, bar.Back.Enabled)
	assert.False(t, bar.Forward.Enabled)
	assert.Empty(t, bar.Back.Path)
	assert.Empty(t, bar.Forward.Path)
}

func TestBuildBar_LastRoute(t *testing.T) {
	bar := BuildBar(DefaultTable(), PathRegister, nil)
	assert.True(t, bar.Back.Enabled)
	assert.Equal(t, PathLogin, bar.Back.Path)
	assert.False(t, bar.Forward.Enabled)
}
