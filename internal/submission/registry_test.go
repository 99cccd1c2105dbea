package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(clock *ManualClock) *Registry {
	return NewRegistry(func(string) *Flow {
		return NewFlow(Options{Clock: clock})
	})
}

func TestRegistry_GetReusesLiveFlow(t *testing.T) {
	r := newTestRegistry(NewManualClock())
	defer r.CloseAll()

	a := r.Get("visitor-1")
	b := r.Get("visitor-1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, r.Get("visitor-2"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ReleaseClosesFlow(t *testing.T) {
	clock := NewManualClock()
	r := newTestRegistry(clock)

	f := r.Get("visitor-1")
	require.NoError(t, f.SelectFile(FileRef{Name: "leaf.jpg"}))
	require.NoError(t, f.Submit())

	assert.True(t, r.Release("visitor-1"))
	assert.True(t, f.Closed())
	assert.Equal(t, 0, clock.Pending())
	assert.False(t, r.Release("visitor-1"))

	_, ok := r.Lookup("visitor-1")
	assert.False(t, ok)

	fresh := r.Get("visitor-1")
	assert.NotSame(t, f, fresh)
	assert.Equal(t, State{}, fresh.Snapshot())
	r.CloseAll()
	assert.True(t, fresh.Closed())
	assert.Equal(t, 0, r.Len())
}
