package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service/auth"
)

// AuthService is the part of auth.Service the handlers use.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles registration and the login/logout forms.
type AuthHandler struct {
	auth         AuthService
	cookieSecure bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService AuthService, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:         authService,
		cookieSecure: cookieSecure,
		logger:       logger.With(slog.String("component", "auth_handler")),
	}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, RegisterFormResponse{
		Designations: domain.Designations(),
		Departments:  domain.Departments(),
	})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		Designation: req.Designation,
		Department:  *req.Department,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondRedirect(w, r, http.StatusCreated, "/login", newUserResponse(user))
}

// LoginForm handles GET /login and reports whether a session is active.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(user, time.Time{}))
}

// Login handles POST /login and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	middleware.SetSessionCookie(w, res, h.cookieSecure)
	shared.RespondRedirect(w, r, http.StatusOK, "/", newSessionResponse(res.User, res.ExpiresAt))
}

// Logout handles GET and POST /logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.cookieSecure)

	if cookie, err := r.Cookie(shared.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			HandleAPIError(w, r, err)
			return
		}
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("session cookie revoked")
	}

	shared.RespondRedirect(w, r, http.StatusNoContent, "/", nil)
}

// decodeAndValidate fills v from the request body and validates it, writing
// the error response when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeRequest(w, r, v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, shared.ErrUnsupportedMediaType):
			HandleAPIError(w, r, err)
		case errors.As(err, &tooLarge):
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Request body too large", err)
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		}
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
