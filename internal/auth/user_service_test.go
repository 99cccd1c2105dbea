package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/agrimrv-lite/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*UserService, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewUserService(store, &config.PasswordConfig{BcryptCost: config.MinBcryptCost}, nil), store
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Farmer@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", user.Email)
	assert.True(t, user.PasswordSet)
	assert.NotEqual(t, uuid.Nil, user.ID)

	stored, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	loggedIn, err := svc.Login(ctx, "FARMER@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "farmer@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "farmer@example.com", "secret2")
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_LoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "farmer@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "farmer@example.com", "wrong-password")
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorAs(t, err, &invalid)
}

func TestUserService_ProviderMethods(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "farmer@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, session.SignedIn())
	assert.Equal(t, "farmer@example.com", session.Email)

	again, err := svc.SignIn(ctx, "farmer@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, again.UserID)

	assert.NoError(t, svc.SignOut(ctx, again))
	assert.NoError(t, svc.SignOut(ctx, nil))
}

type failingStore struct {
	*MemoryStore
}

func (f *failingStore) CheckEmailExists(context.Context, string) (bool, error) {
	return false, errors.New("database unavailable")
}

func TestUserService_StoreFailureIsUnexpected(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := NewUserService(store, &config.PasswordConfig{BcryptCost: config.MinBcryptCost}, nil)

	_, err := svc.SignUp(context.Background(), "farmer@example.com", "secret1")
	require.Error(t, err)

	var reported ReportedError
	assert.False(t, errors.As(err, &reported))
}

// vanishingStore accepts new users but never finds them again.
type vanishingStore struct {
	*MemoryStore
}

func (v *vanishingStore) GetUser(context.Context, uuid.UUID) (*StoredUser, error) {
	return nil, nil
}

func TestUserService_RegisterUserMissingAfterCreate(t *testing.T) {
	svc := NewUserService(&vanishingStore{MemoryStore: NewMemoryStore()}, &config.PasswordConfig{BcryptCost: config.MinBcryptCost}, nil)

	_, err := svc.Register(context.Background(), "farmer@example.com", "secret1")
	require.Error(t, err)

	var notFound *ErrUserNotFound
	require.ErrorAs(t, err, &notFound)
	assert.NotEqual(t, uuid.Nil, notFound.UserID)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}
