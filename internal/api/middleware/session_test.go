package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFunc func(ctx context.Context, token string) (*domain.User, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return f(ctx, token)
}

var manager = &domain.User{ID: 1, Username: "mgr", Designation: domain.DesignationManager, Department: 1}

func staticAuth(token string, user *domain.User) Authenticator {
	return authFunc(func(ctx context.Context, got string) (*domain.User, error) {
		if got == token {
			return user, nil
		}
		return nil, auth.ErrInvalidToken
	})
}

// echoUser reports which user, if any, reached the handler.
func echoUser(w http.ResponseWriter, r *http.Request) {
	if u, ok := shared.UserFromContext(r.Context()); ok {
		_, _ = w.Write([]byte(u.Username))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: shared.SessionCookieName, Value: value})
	}
	return r
}

func TestLoadUser(t *testing.T) {
	m := NewSessionMiddleware(staticAuth("good", manager), false)
	h := m.LoadUser(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithCookie("good"))
	assert.Equal(t, "mgr", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithCookie(""))
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestLoadUserClearsStaleCookie(t *testing.T) {
	m := NewSessionMiddleware(staticAuth("good", manager), true)
	rec := httptest.NewRecorder()

	m.LoadUser(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie("forged"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, shared.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.True(t, cookies[0].Secure)
}

func TestLoadUserBackendFailure(t *testing.T) {
	m := NewSessionMiddleware(authFunc(func(ctx context.Context, token string) (*domain.User, error) {
		return nil, errors.New("redis: connection refused")
	}), false)
	rec := httptest.NewRecorder()

	m.LoadUser(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie("any"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rec, r.WithContext(shared.WithUser(r.Context(), manager)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireDesignation(t *testing.T) {
	h := RequireDesignation(domain.DesignationManager)(http.HandlerFunc(echoUser))
	employee := &domain.User{ID: 2, Username: "emp", Designation: domain.DesignationEmployee}

	tests := []struct {
		name string
		user *domain.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"employee", employee, http.StatusForbidden},
		{"manager", manager, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/add", nil)
			if tt.user != nil {
				r = r.WithContext(shared.WithUser(r.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	expires := time.Now().Add(time.Hour)
	SetSessionCookie(rec, &auth.LoginResult{Token: "tok", ExpiresAt: expires}, false)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.WithinDuration(t, expires, cookies[0].Expires, time.Second)
}
