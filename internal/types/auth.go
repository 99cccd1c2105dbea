// Package types provides type definitions shared across the AgriMRV-Lite packages.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MinPasswordLength is the shortest password accepted by the auth forms.
const MinPasswordLength = 6

// Credentials is what the Register and Login forms collect.
// Email format is left to the auth provider; only presence is checked here.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate validates the Credentials using the validator.
func (c *Credentials) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Session is the signed-in identity handed to each page.
// A nil *Session means nobody is signed in.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// SignedIn reports whether s represents an authenticated visitor.
func (s *Session) SignedIn() bool {
	return s != nil && s.UserID != uuid.Nil
}

// DisplayName returns the identifier shown in the navigation bar.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	return s.Email
}

// User represents an account for API responses (password hash excluded).
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session returns the session for an authenticated user.
func (u *User) Session() *Session {
	if u == nil {
		return nil
	}
	return &Session{UserID: u.ID, Email: u.Email}
}
