// Package middleware provides the visitor and session middleware of the web server.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/jonathan/agrimrv-lite/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const sessionKey ContextKey = "session"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "agrimrv_session"

// SessionValidator turns a token into a session.
type SessionValidator interface {
	ValidateSession(token string) (*types.Session, error)
}

// SessionMiddleware reads the session cookie and stores the session in the
// request context. Requests without a valid token continue anonymously; an
// invalid cookie is cleared.
func SessionMiddleware(validator SessionValidator, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := validator.ValidateSession(cookie.Value)
			if err != nil || !session.SignedIn() {
				ClearSessionCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *types.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetSession returns the signed-in session of the request, or nil.
func GetSession(r *http.Request) *types.Session {
	s, _ := r.Context().Value(sessionKey).(*types.Session)
	return s
}

// SetSessionCookie stores token in an HttpOnly cookie valid for ttl.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
