package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskdesk/internal/service/auth"
)

// MockSessionTokenService implements auth.SessionTokenService for testing.
// By default a token is the session id itself.
type MockSessionTokenService struct {
	IssueTokenFn func(ctx context.Context, sessionID string, expiresAt time.Time) (string, error)
	ParseTokenFn func(ctx context.Context, token string) (string, error)
}

// Ensure MockSessionTokenService implements auth.SessionTokenService interface
var _ auth.SessionTokenService = (*MockSessionTokenService)(nil)

// IssueToken implements the auth.SessionTokenService interface
func (m *MockSessionTokenService) IssueToken(
	ctx context.Context,
	sessionID string,
	expiresAt time.Time,
) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, sessionID, expiresAt)
	}
	return sessionID, nil
}

// ParseToken implements the auth.SessionTokenService interface
func (m *MockSessionTokenService) ParseToken(ctx context.Context, token string) (string, error) {
	if m.ParseTokenFn != nil {
		return m.ParseTokenFn(ctx, token)
	}
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}
