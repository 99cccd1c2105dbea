package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a process-local UserStore used when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*StoredUser
	byEmail map[string]uuid.UUID
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]*StoredUser),
		byEmail: make(map[string]uuid.UUID),
	}
}

// CheckEmailExists implements UserStore.
func (m *MemoryStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

// CreateUser implements UserStore.
func (m *MemoryStore) CreateUser(_ context.Context, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[email]; ok {
		return uuid.Nil, &ErrEmailAlreadyExists{Email: email}
	}
	u := &StoredUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		PasswordSet:  passwordHash != "",
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[u.ID] = u
	m.byEmail[email] = u.ID
	return u.ID, nil
}

// GetUser implements UserStore.
func (m *MemoryStore) GetUser(_ context.Context, id uuid.UUID) (*StoredUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail implements UserStore.
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*StoredUser, error) {
	m.mu.RLock()
	id, ok := m.byEmail[email]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return m.GetUser(ctx, id)
}
