// Package auth implements the Register and Login forms and the account
// service behind them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/agrimrv-lite/internal/navigation"
	"github.com/jonathan/agrimrv-lite/internal/notify"
	"github.com/jonathan/agrimrv-lite/internal/types"
	"go.uber.org/zap"
)

// Provider is the authentication collaborator.
// Failures meant for the visitor are returned as ReportedError values.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*types.Session, error)
	SignIn(ctx context.Context, email, password string) (*types.Session, error)
	SignOut(ctx context.Context, s *types.Session) error
}

// Mode selects which provider call a Form makes.
type Mode int

const (
	ModeSignUp Mode = iota
	ModeSignIn
)

type modeText struct {
	failedTitle  string
	successTitle string
	successDesc  string
}

var texts = map[Mode]modeText{
	ModeSignUp: {
		failedTitle:  "Registration Failed",
		successTitle: "Registration Successful",
		successDesc:  "Please check your email to verify your account.",
	},
	ModeSignIn: {
		failedTitle:  "Login Failed",
		successTitle: "Welcome back",
		successDesc:  "You have been successfully logged in",
	},
}

// unexpectedMessage is shown when the provider fails in a way it did not report.
const unexpectedMessage = "An unexpected error occurred"

// Form is one visitor's Register or Login form. It guards against a second
// submission while a provider call is outstanding.
type Form struct {
	mode     Mode
	provider Provider
	notifier notify.Notifier
	logger   *zap.Logger

	mu      sync.Mutex
	loading bool
	values  types.Credentials
}

// NewForm creates a form for mode.
func NewForm(mode Mode, provider Provider, notifier notify.Notifier, logger *zap.Logger) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Form{
		mode:     mode,
		provider: provider,
		notifier: notifier,
		logger:   logger,
	}
}

// Loading reports whether a submission is outstanding.
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Values returns the last entered credentials.
func (f *Form) Values() types.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Submit validates creds and calls the provider once. On success it notifies
// and navigates router to the dashboard; on failure it notifies and leaves
// the router where it is. The loading flag is cleared in every outcome.
func (f *Form) Submit(ctx context.Context, creds types.Credentials, router navigation.Router) (*types.Session, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.loading = true
	f.values = creds
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()
	}()

	text := texts[f.mode]

	if err := validateCredentials(creds); err != nil {
		f.notifier.Notify(notify.Notification{
			Title:       text.failedTitle,
			Description: err.Message,
			Variant:     notify.VariantDestructive,
		})
		return nil, err
	}

	session, err := f.call(ctx, creds)
	if err != nil {
		var reported ReportedError
		if errors.As(err, &reported) {
			f.logger.Info("auth provider rejected request",
				zap.String("email", creds.Email),
				zap.String("reason", reported.UserMessage()))
			f.notifier.Notify(notify.Notification{
				Title:       text.failedTitle,
				Description: reported.UserMessage(),
				Variant:     notify.VariantDestructive,
			})
			return nil, err
		}

		f.logger.Error("auth provider failed", zap.Error(err))
		f.notifier.Notify(notify.Notification{
			Title:       text.failedTitle,
			Description: unexpectedMessage,
			Variant:     notify.VariantDestructive,
		})
		return nil, fmt.Errorf("unexpected auth failure: %w", err)
	}

	f.notifier.Notify(notify.Notification{
		Title:       text.successTitle,
		Description: text.successDesc,
	})
	router.Navigate(navigation.PathDashboard)
	return session, nil
}

// call invokes the provider, turning a panic into an unexpected error.
func (f *Form) call(ctx context.Context, creds types.Credentials) (session *types.Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			session = nil
			err = fmt.Errorf("auth provider panic: %v", r)
		}
	}()

	switch f.mode {
	case ModeSignIn:
		return f.provider.SignIn(ctx, creds.Email, creds.Password)
	default:
		return f.provider.SignUp(ctx, creds.Email, creds.Password)
	}
}

// validateCredentials runs the struct rules and converts the first failure
// into a message fit for a notification.
func validateCredentials(creds types.Credentials) *ErrValidation {
	err := creds.Validate()
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		switch {
		case ve.Field() == "Email":
			return &ErrValidation{Field: "email", Message: "Email is required"}
		case ve.Field() == "Password" && ve.Tag() == "min":
			return &ErrValidation{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", types.MinPasswordLength)}
		case ve.Field() == "Password":
			return &ErrValidation{Field: "password", Message: "Password is required"}
		}
	}
	return &ErrValidation{Field: "form", Message: "Please check the form and try again"}
}
