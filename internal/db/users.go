package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/agrimrv-lite/internal/auth"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint failure.
const uniqueViolation = "23505"

var _ auth.UserStore = (*DB)(nil)

// CheckEmailExists reports whether an account uses email (case-insensitive).
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// CreateUser inserts an account and returns its ID.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, password_set)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		email, passwordHash, passwordHash != "",
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, &auth.ErrEmailAlreadyExists{Email: email}
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

const userColumns = `id, email, password_hash, password_set, created_at`

func scanUser(row pgx.Row) (*auth.StoredUser, error) {
	var u auth.StoredUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.PasswordSet, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetUser retrieves an account by ID, or nil when none exists.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*auth.StoredUser, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves an account by email (case-insensitive), or nil when none exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*auth.StoredUser, error) {
	if email == "" {
		return nil, nil
	}
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// DeleteUser removes an account.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
