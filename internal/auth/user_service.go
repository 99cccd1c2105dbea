package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/agrimrv-lite/internal/config"
	"github.com/jonathan/agrimrv-lite/internal/types"
	"go.uber.org/zap"
)

// StoredUser is an account row as kept by a UserStore.
type StoredUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	PasswordSet  bool
	CreatedAt    time.Time
}

// UserStore persists accounts. The PostgreSQL DB and MemoryStore implement it.
// Lookups return (nil, nil) when nothing matches.
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*StoredUser, error)
	GetUserByEmail(ctx context.Context, email string) (*StoredUser, error)
}

// UserService provides business logic for user authentication operations
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
	logger         *zap.Logger
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
		logger:         logger,
	}
}

// toUser converts a stored row to types.User, excluding password hash
func toUser(u *StoredUser) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Email:       u.Email,
		PasswordSet: u.PasswordSet,
		CreatedAt:   u.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, email, password string) (*types.User, error) {
	email = normalizeEmail(email)

	exists, err := s.store.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.store.CreateUser(ctx, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	stored, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if stored == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}

	s.logger.Info("user registered", zap.String("user_id", userID.String()))
	return toUser(stored), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, email, password string) (*types.User, error) {
	stored, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Same error for unknown email and wrong password
	if stored == nil || !stored.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(password, stored.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toUser(stored), nil
}

// SignUp implements Provider.
func (s *UserService) SignUp(ctx context.Context, email, password string) (*types.Session, error) {
	user, err := s.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user.Session(), nil
}

// SignIn implements Provider.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	user, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user.Session(), nil
}

// SignOut implements Provider. Sessions are stateless tokens, so there is
// nothing to revoke server-side; the caller clears the cookie.
func (s *UserService) SignOut(_ context.Context, session *types.Session) error {
	if session.SignedIn() {
		s.logger.Info("user signed out", zap.String("user_id", session.UserID.String()))
	}
	return nil
}
