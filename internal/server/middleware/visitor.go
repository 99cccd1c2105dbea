package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const visitorKey ContextKey = "visitor"

// VisitorCookieName identifies a browser across requests, signed in or not.
const VisitorCookieName = "agrimrv_visitor"

// VisitorMiddleware makes sure every request carries a visitor ID, issuing a
// new cookie when the browser has none or an unparseable one.
func VisitorMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(VisitorCookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), visitorKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetVisitorID returns the visitor ID of the request, or "" outside VisitorMiddleware.
func GetVisitorID(r *http.Request) string {
	id, _ := r.Context().Value(visitorKey).(string)
	return id
}
