package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service/auth"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// SessionMiddleware attaches the session user to requests that carry a valid cookie.
type SessionMiddleware struct {
	auth         Authenticator
	cookieSecure bool
}

// NewSessionMiddleware creates a SessionMiddleware.
func NewSessionMiddleware(authenticator Authenticator, cookieSecure bool) *SessionMiddleware {
	if authenticator == nil {
		panic("authenticator cannot be nil")
	}
	return &SessionMiddleware{auth: authenticator, cookieSecure: cookieSecure}
}

// LoadUser puts the session user into the context. Requests without a cookie
// continue anonymously; a stale or forged cookie is cleared and the request
// continues anonymously.
func (m *SessionMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(shared.SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.auth.Authenticate(r.Context(), cookie.Value)
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrExpiredToken),
			errors.Is(err, auth.ErrMissingToken):
			logger.FromContext(r.Context()).Debug("discarding unusable session cookie", "reason", err.Error())
			ClearSessionCookie(w, m.cookieSecure)
			next.ServeHTTP(w, r)
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Authentication error", err)
		}
	})
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.UserFromContext(r.Context()); !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireDesignation rejects anonymous requests with 401 and users holding
// none of the given designations with 403.
func RequireDesignation(designations ...domain.Designation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := shared.UserFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, d := range designations {
				if user.Designation == d {
					next.ServeHTTP(w, r)
					return
				}
			}
			shared.RespondWithError(w, r, http.StatusForbidden, "You are not allowed to do that")
		})
	}
}

// SetSessionCookie writes the session cookie.
func SetSessionCookie(w http.ResponseWriter, res *auth.LoginResult, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
