package auth

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "busy", err: ErrBusy, want: http.StatusConflict},
		{name: "email exists", err: &ErrEmailAlreadyExists{Email: "a@b.c"}, want: http.StatusConflict},
		{name: "wrapped invalid credentials", err: fmt.Errorf("login: %w", &ErrInvalidCredentials{}), want: http.StatusUnauthorized},
		{name: "not found", err: &ErrUserNotFound{UserID: uuid.New()}, want: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Field: "email", Message: "Email is required"}, want: http.StatusBadRequest},
		{name: "provider", err: &ProviderError{Message: "Signups disabled"}, want: http.StatusUnprocessableEntity},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestReportedErrors(t *testing.T) {
	var reported ReportedError

	assert.True(t, errors.As(&ErrEmailAlreadyExists{}, &reported))
	assert.Equal(t, "User already registered", reported.UserMessage())

	assert.True(t, errors.As(&ErrInvalidCredentials{}, &reported))
	assert.Equal(t, "Invalid login credentials", reported.UserMessage())

	assert.True(t, errors.As(&ProviderError{Message: "Rate limited"}, &reported))
	assert.Equal(t, "Rate limited", reported.UserMessage())

	assert.False(t, errors.As(&ErrValidation{}, &reported))
}
