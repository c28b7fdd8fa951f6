package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username    string
	Password    string
	Designation string
	Department  int
}

// LoginResult is a freshly established session.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Service handles registration and the session lifecycle.
type Service struct {
	users    store.UserStore
	sessions store.SessionStore
	tokens   SessionTokenService
	verifier PasswordVerifier
	lifetime time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates an auth Service. lifetime is how long a login stays valid.
func NewService(
	users store.UserStore,
	sessions store.SessionStore,
	tokens SessionTokenService,
	verifier PasswordVerifier,
	lifetime time.Duration,
	logger *slog.Logger,
) (*Service, error) {
	if users == nil || sessions == nil || tokens == nil || verifier == nil {
		return nil, errors.New("auth service dependencies cannot be nil")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("session lifetime must be positive, got %s", lifetime)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		verifier: verifier,
		lifetime: lifetime,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Register validates the input and creates the user. The store hashes the password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	designation, err := domain.ParseDesignation(in.Designation)
	if err != nil {
		return nil, domain.NewValidationError("designation", "must be Admin, Manager or Employee", err)
	}

	user, err := domain.NewUser(in.Username, in.Password, designation, domain.Department(in.Department))
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, store.ErrUsernameExists) {
			s.log(ctx).Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.log(ctx).Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("designation", string(user.Designation)),
		slog.Int("department", int(user.Department)))
	return user, nil
}

// Login checks the credentials and opens a session.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := s.log(ctx)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.verifier.Compare(timingHash(), password)
			log.Debug("login for unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &store.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.IssueToken(ctx, session.ID, session.ExpiresAt)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, err
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return &LoginResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Logout revokes the session named by token. It never fails on a bad or missing token.
func (s *Service) Logout(ctx context.Context, token string) error {
	sessionID, err := s.tokens.ParseToken(ctx, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.log(ctx).Debug("session revoked")
	return nil
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	sessionID, err := s.tokens.ParseToken(ctx, token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrExpiredToken
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, sessionID)
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

// SessionLifetime reports how long a new session stays valid.
func (s *Service) SessionLifetime() time.Duration {
	return s.lifetime
}
