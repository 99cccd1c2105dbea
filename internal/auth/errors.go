package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrBusy is returned when a form is submitted while its previous submission is outstanding.
var ErrBusy = errors.New("auth request already in progress")

// ReportedError is a failure the auth provider reports back to the visitor.
// Anything else coming out of a provider call is treated as unexpected.
type ReportedError interface {
	error
	UserMessage() string
}

// ProviderError is a generic provider-reported failure.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// UserMessage implements ReportedError.
func (e *ProviderError) UserMessage() string {
	return e.Message
}

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// UserMessage implements ReportedError.
func (e *ErrEmailAlreadyExists) UserMessage() string {
	return "User already registered"
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// UserMessage implements ReportedError.
func (e *ErrInvalidCredentials) UserMessage() string {
	return "Invalid login credentials"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates local form validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists   *ErrEmailAlreadyExists
		invalid  *ErrInvalidCredentials
		notFound *ErrUserNotFound
		valErr   *ErrValidation
		provider *ProviderError
	)
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &invalid):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &provider):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
